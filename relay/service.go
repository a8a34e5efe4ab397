package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/scylladb/go-set/strset"
)

// Service hands out allocations across the relay servers of several regions.
type Service struct {
	servers       map[string]*Server
	regions       *strset.Set
	defaultRegion string

	logger *slog.Logger
}

// NewService creates a Service over servers. The first server's region is used when a caller does not
// ask for one.
func NewService(logger *slog.Logger, servers ...*Server) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		servers: make(map[string]*Server, len(servers)),
		regions: strset.New(),
		logger:  logger,
	}
	for _, server := range servers {
		if s.defaultRegion == "" {
			s.defaultRegion = server.Region()
		}
		s.servers[server.Region()] = server
		s.regions.Add(server.Region())
	}
	return s
}

// Regions returns the regions served, sorted.
func (s *Service) Regions() []string {
	regions := s.regions.List()
	sort.Strings(regions)
	return regions
}

// Allocate creates an allocation in region and returns the host ticket. An empty region selects the
// default region.
func (s *Service) Allocate(_ context.Context, region string) (ServerData, error) {
	if region == "" {
		region = s.defaultRegion
	}

	if region == "" {
		return ServerData{}, ErrNoRegions
	}

	if !s.regions.Has(region) {
		return ServerData{}, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}

	data, err := s.servers[region].Allocate()
	if err != nil {
		s.logger.Error("failed to allocate", "region", region, "err", err)
		return ServerData{}, err
	}
	s.logger.Debug("allocated", "region", region, "allocation", data.AllocationID)
	return data, nil
}

// Join returns the client ticket for joinCode.
func (s *Service) Join(_ context.Context, joinCode string) (ServerData, error) {
	for _, server := range s.servers {
		if data, ok := server.Lookup(joinCode); ok {
			return data, nil
		}
	}
	return ServerData{}, fmt.Errorf("%w: %s", ErrUnknownAllocation, joinCode)
}

// Release drops the allocation behind data.
func (s *Service) Release(data ServerData) {
	if server, ok := s.servers[data.Region]; ok {
		server.Release(data.AllocationID)
	}
}
