// Package errlist accumulates independent errors so input validation
// can report everything wrong with a run at once instead of stopping at
// the first problem.
package errlist

import "strings"

func New(errors ...error) List {
	return List.Add(nil, errors...)
}

type List []error

func (e List) Add(errors ...error) List {
	for _, err := range errors {
		if err == nil {
			continue
		}

		e = append(e, err)
	}

	return e
}

// Err returns the list as an error, or nil when nothing was added.
func (e List) Err() error {
	if len(e) == 0 {
		return nil
	}

	return e
}

func (e List) Error() string {
	var slist []string
	for _, err := range e {
		slist = append(slist, err.Error())
	}
	return strings.Join(slist, "; ")
}
