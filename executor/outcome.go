// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"

	"github.com/33cn/paraxcm/types"
)

// OutcomeKind classifies the result of one execution.
type OutcomeKind uint8

// outcome kinds
const (
	// Complete ran every instruction.
	Complete OutcomeKind = iota
	// Incomplete stopped at a failing instruction; earlier effects stay.
	Incomplete
	// Error never started: nothing was changed.
	Error
)

func (k OutcomeKind) String() string {
	switch k {
	case Complete:
		return "Complete"
	case Incomplete:
		return "Incomplete"
	}
	return "Error"
}

// Outcome is the result of Execute.
type Outcome struct {
	Kind OutcomeKind
	Used types.Weight
	Err  error
	// Index is the failing instruction when Kind is Incomplete.
	Index int
}

// Ensure returns the outcome's error, nil when complete.
func (o Outcome) Ensure() error {
	if o.Kind == Complete {
		return nil
	}
	return o.Err
}

// IsComplete reports whether every instruction ran.
func (o Outcome) IsComplete() bool { return o.Kind == Complete }

func (o Outcome) String() string {
	switch o.Kind {
	case Complete:
		return fmt.Sprintf("Complete(%s)", o.Used)
	case Incomplete:
		return fmt.Sprintf("Incomplete(%s, #%d %v)", o.Used, o.Index, o.Err)
	}
	return fmt.Sprintf("Error(%v)", o.Err)
}
