package transport

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"
)

// streamAcceptor waits for the single stream of an accepted connection. It closes the connection when
// no stream arrives.
type streamAcceptor func(ctx context.Context) (io.ReadWriteCloser, net.Addr, error)

type acceptedStream struct {
	rwc  io.ReadWriteCloser
	addr net.Addr
}

// streamListener adapts a listener of stream-multiplexing connections. Every connection waits for its
// stream on its own goroutine, so a peer that never opens one does not hold up the others.
type streamListener struct {
	addr   net.Addr
	closer func() error

	streams chan acceptedStream
	done    chan struct{}
	err     error
	once    sync.Once
	cancel  context.CancelFunc
}

func newStreamListener(addr net.Addr, closer func() error, timeout time.Duration, logger *slog.Logger, accept func(ctx context.Context) (streamAcceptor, error)) *streamListener {
	ctx, cancel := context.WithCancel(context.Background())
	l := &streamListener{
		addr:   addr,
		closer: closer,

		streams: make(chan acceptedStream),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
	go l.run(ctx, timeout, logger, accept)
	return l
}

func (l *streamListener) run(ctx context.Context, timeout time.Duration, logger *slog.Logger, accept func(ctx context.Context) (streamAcceptor, error)) {
	for {
		acceptStream, err := accept(ctx)
		if err != nil {
			l.stop(err)
			return
		}

		go func() {
			streamCtx, cancel := ctx, context.CancelFunc(func() {})
			if timeout > 0 {
				streamCtx, cancel = context.WithTimeout(ctx, timeout)
			}
			rwc, addr, err := acceptStream(streamCtx)
			cancel()
			if err != nil {
				logger.Debug("dropped connection without stream", "err", err)
				return
			}

			select {
			case l.streams <- acceptedStream{rwc: rwc, addr: addr}:
			case <-l.done:
				_ = rwc.Close()
			}
		}()
	}
}

// Accept ...
func (l *streamListener) Accept() (io.ReadWriteCloser, net.Addr, error) {
	select {
	case s := <-l.streams:
		return s.rwc, s.addr, nil
	case <-l.done:
		return nil, nil, l.err
	}
}

// Addr ...
func (l *streamListener) Addr() net.Addr {
	return l.addr
}

// Close ...
func (l *streamListener) Close() error {
	l.stop(net.ErrClosed)
	return l.closer()
}

func (l *streamListener) stop(err error) {
	l.once.Do(func() {
		l.err = err
		l.cancel()
		close(l.done)
	})
}
