package logroute

import (
	"io"
	"os"
	"sync/atomic"
)

// defaultAdapterFactory is set by an adapter package (e.g. adapter/zerolog)
// in its init() to avoid import cycles.
var defaultAdapterFactory atomic.Pointer[func(io.Writer) Adapter]

// RegisterDefaultAdapterFactory registers the constructor used by DefaultAdapter.
// Adapters call this from init():
//
//	func init() {
//	  logroute.RegisterDefaultAdapterFactory(func(w io.Writer) logroute.Adapter {
//	    return New(zerolog.New(w))
//	  })
//	}
func RegisterDefaultAdapterFactory(f func(io.Writer) Adapter) {
	if f == nil {
		defaultAdapterFactory.Store(nil)
		return
	}
	defaultAdapterFactory.Store(&f)
}

// DefaultAdapter builds an adapter writing to w (os.Stderr when nil) through the
// registered factory, or returns Discard if none is registered.
func DefaultAdapter(w io.Writer) Adapter {
	f := defaultAdapterFactory.Load()
	if f == nil {
		return Discard
	}
	if w == nil {
		w = os.Stderr
	}
	return (*f)(w)
}
