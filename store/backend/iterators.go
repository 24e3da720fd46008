package backend

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/juju/errors"
)

// openIterators tracks iterators that have not been closed yet. It is used
// to detect leaked iterators before mutating a store. The map key is the
// caller's file:line that created the iterator.
type openIterators struct {
	mu      sync.Mutex
	callers map[string]int
}

// track registers a new iterator on behalf of the caller of the accessor
// method that created it.
func (o *openIterators) track() string {
	// 0: track, 1: make*Iterator, 2: accessor method, 3: caller.
	_, file, line, _ := runtime.Caller(3)
	iteratorID := fmt.Sprintf("%s:%d", file, line)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.callers == nil {
		o.callers = make(map[string]int)
	}
	o.callers[iteratorID]++
	return iteratorID
}

func (o *openIterators) release(iteratorID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.callers[iteratorID]--; o.callers[iteratorID] <= 0 {
		delete(o.callers, iteratorID)
	}
}

// assertAllClosed returns an error listing the callers of any iterators
// that have not been closed.
func (o *openIterators) assertAllClosed() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.callers) == 0 {
		return nil
	}

	callerList := make([]string, 0, len(o.callers))
	for caller := range o.callers {
		callerList = append(callerList, caller)
	}
	sort.Strings(callerList)
	return errors.Errorf("unable to import as the following iterators have not been closed:\n%s", strings.Join(callerList, "\n"))
}
