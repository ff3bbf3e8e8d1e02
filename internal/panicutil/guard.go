package panicutil

import (
	"github.com/sourcegraph/conc/panics"
)

// Call runs f and returns its error.
// If f panics, the recovered value is returned as *panics.ErrRecovered.
// If f calls runtime.Goexit, Call never returns; onGoexit (if not nil) runs while the goroutine unwinds.
func Call(f func() error, onGoexit func()) error {
	g := Guard{OnGoexit: onGoexit}
	return g.Invoke(f)
}

// Do runs f and returns the recovered panic as *panics.ErrRecovered, or nil if f returned normally.
func Do(f func(), onGoexit func()) error {
	return Call(func() error {
		f()
		return nil
	}, onGoexit)
}

// Guard tells apart the three ways a function can leave: a normal return, a panic and runtime.Goexit.
// The inner deferred recover observes panics and the outer one observes a Goexit,
// which unwinds through both without ever reaching the code after the inner call.
type Guard struct {
	// OnGoexit is called when the function calls runtime.Goexit.
	OnGoexit func()
}

// Invoke runs f under the guard.
func (g *Guard) Invoke(f func() error) (err error) {
	var (
		returned  bool
		panicked  bool
		recovered panics.Recovered
	)
	defer func() {
		if returned || panicked {
			return
		}
		if g.OnGoexit != nil {
			g.OnGoexit()
		}
	}()
	func() {
		defer func() {
			if returned {
				return
			}
			recovered = panics.NewRecovered(2, recover())
		}()
		err = f()
		returned = true
	}()
	if !returned {
		panicked = true
		err = recovered.AsError()
	}
	return err
}
