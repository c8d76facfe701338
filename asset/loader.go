package asset

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Loader produces the mesh template, may block on I/O
type Loader interface {
	Load(ctx context.Context) (*Template, error)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context) (*Template, error)

func (f LoaderFunc) Load(ctx context.Context) (*Template, error) {
	return f(ctx)
}

// Future carries an in-flight load from its goroutine to the host loop
// The host polls without blocking so simulation state is only touched from one goroutine
type Future struct {
	done chan struct{}
	once sync.Once

	tpl *Template
	err error
}

// Start runs loader on its own goroutine
func Start(ctx context.Context, loader Loader) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("asset: loader panic: %v", r)
				f.resolve(nil, fmt.Errorf("loader panic: %v", r))
			}
		}()
		tpl, err := loader.Load(ctx)
		f.resolve(tpl, err)
	}()
	return f
}

// Resolved returns an already completed future
func Resolved(tpl *Template, err error) *Future {
	f := &Future{done: make(chan struct{})}
	f.resolve(tpl, err)
	return f
}

func (f *Future) resolve(tpl *Template, err error) {
	f.once.Do(func() {
		if err == nil && tpl == nil {
			err = ErrNoVertices
		}
		f.tpl, f.err = tpl, err
		close(f.done)
	})
}

// Done is closed once the load finished
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Poll returns ErrPending until the load finished, then its result
func (f *Future) Poll() (*Template, error) {
	select {
	case <-f.done:
		return f.tpl, f.err
	default:
		return nil, ErrPending
	}
}

// Wait blocks until the load finished or ctx is done
func (f *Future) Wait(ctx context.Context) (*Template, error) {
	select {
	case <-f.done:
		return f.tpl, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ForPath returns an OBJ loader for path, or the procedural heart when path is empty
func ForPath(path string) Loader {
	if path == "" {
		return NewHeartLoader()
	}
	return &OBJLoader{Path: path, Recenter: true}
}
