// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcm

import (
	"math"
	"strconv"
	"strings"

	"github.com/33cn/paraxcm/common"
	"github.com/33cn/paraxcm/types"
	"github.com/pkg/errors"
)

// Location addresses a consensus system or something inside one, relative
// to the chain that reads it: ascend Parents levels, then descend Interior.
// Locations are values; every transformation returns a new one.
type Location struct {
	Parents  uint8
	Interior Junctions
}

// Here is the location of the reading chain itself.
func Here() Location { return Location{} }

// Parent is the location of the reading chain's parent (the relay).
func Parent() Location { return Location{Parents: 1} }

// ParachainLocation is a child parachain seen from the relay.
func ParachainLocation(id uint32) Location {
	return Location{Interior: Junctions{Parachain{ID: id}}}
}

// SiblingLocation is a sibling parachain seen from a parachain.
func SiblingLocation(id uint32) Location {
	return Location{Parents: 1, Interior: Junctions{Parachain{ID: id}}}
}

// AccountLocation is a local 32 byte account.
func AccountLocation(network NetworkID, id types.AccountID) Location {
	return Location{Interior: Junctions{AccountID32{Network: network, ID: id}}}
}

// NewLocation builds a location. It panics on more than MaxJunctions
// junctions; use Pushed for checked growth.
func NewLocation(parents uint8, interior ...Junction) Location {
	if len(interior) > MaxJunctions {
		panic("xcm: location interior too long")
	}
	return Location{Parents: parents, Interior: append(Junctions(nil), interior...)}
}

// IsHere reports whether l denotes the reading chain.
func (l Location) IsHere() bool {
	return l.Parents == 0 && len(l.Interior) == 0
}

// Equal compares two locations structurally.
func (l Location) Equal(o Location) bool {
	return l.Parents == o.Parents && l.Interior.Equal(o.Interior)
}

// StartsWith reports whether prefix has the same parents as l and its
// interior is a prefix of l's interior.
func (l Location) StartsWith(prefix Location) bool {
	if l.Parents != prefix.Parents || len(prefix.Interior) > len(l.Interior) {
		return false
	}
	return l.Interior[:len(prefix.Interior)].Equal(prefix.Interior)
}

// First returns the first interior junction.
func (l Location) First() (Junction, bool) {
	if len(l.Interior) == 0 {
		return nil, false
	}
	return l.Interior[0], true
}

// Last returns the last interior junction.
func (l Location) Last() (Junction, bool) {
	if len(l.Interior) == 0 {
		return nil, false
	}
	return l.Interior[len(l.Interior)-1], true
}

// SplitLast returns l without its last junction, and that junction.
func (l Location) SplitLast() (Location, Junction, bool) {
	if len(l.Interior) == 0 {
		return l, nil, false
	}
	n := len(l.Interior) - 1
	return Location{Parents: l.Parents, Interior: append(Junctions(nil), l.Interior[:n]...)}, l.Interior[n], true
}

// Pushed returns l with j appended to its interior.
func (l Location) Pushed(j Junction) (Location, error) {
	if len(l.Interior) >= MaxJunctions {
		return l, errors.Wrapf(types.ErrLocationOverflow, "push %s onto %s", j, l)
	}
	out := make(Junctions, len(l.Interior), len(l.Interior)+1)
	copy(out, l.Interior)
	return Location{Parents: l.Parents, Interior: append(out, j)}, nil
}

// PushedFront returns l with j prepended to its interior.
func (l Location) PushedFront(j Junction) (Location, error) {
	if len(l.Interior) >= MaxJunctions {
		return l, errors.Wrapf(types.ErrLocationOverflow, "push front %s onto %s", j, l)
	}
	out := make(Junctions, 0, len(l.Interior)+1)
	out = append(out, j)
	return Location{Parents: l.Parents, Interior: append(out, l.Interior...)}, nil
}

// AppendWith resolves the relative location suffix against l: suffix's
// parents first ascend through l's interior, any extra ascend beyond l,
// then suffix's interior is appended.
func (l Location) AppendWith(suffix Location) (Location, error) {
	keep := len(l.Interior) - int(suffix.Parents)
	parents := int(l.Parents)
	if keep < 0 {
		parents -= keep
		keep = 0
	}
	if parents > math.MaxUint8 {
		return l, errors.Wrapf(types.ErrLocationOverflow, "resolve %s against %s", suffix, l)
	}
	if keep+len(suffix.Interior) > MaxJunctions {
		return l, errors.Wrapf(types.ErrLocationOverflow, "resolve %s against %s", suffix, l)
	}
	out := make(Junctions, 0, keep+len(suffix.Interior))
	out = append(out, l.Interior[:keep]...)
	out = append(out, suffix.Interior...)
	return Location{Parents: uint8(parents), Interior: out}, nil
}

// Absolute expresses l from the root of the consensus tree, given the
// reading chain's own position there. Ascending above the root fails.
func (l Location) Absolute(context Junctions) (Location, error) {
	if int(l.Parents) > len(context) {
		return l, errors.Wrapf(types.ErrLocationOverflow, "%s above root of %s", l, context)
	}
	keep := len(context) - int(l.Parents)
	if keep+len(l.Interior) > MaxJunctions {
		return l, errors.Wrapf(types.ErrLocationOverflow, "%s in %s", l, context)
	}
	out := make(Junctions, 0, keep+len(l.Interior))
	out = append(out, context[:keep]...)
	out = append(out, l.Interior...)
	return Location{Interior: out}, nil
}

// RelativeTo expresses the absolute location l as seen from the absolute
// location base.
func (l Location) RelativeTo(base Location) (Location, error) {
	if l.Parents != 0 || base.Parents != 0 {
		return l, errors.Wrap(types.ErrLocationOverflow, "relative locations need absolute operands")
	}
	n := 0
	for n < len(l.Interior) && n < len(base.Interior) && l.Interior[n] == base.Interior[n] {
		n++
	}
	return Location{
		Parents:  uint8(len(base.Interior) - n),
		Interior: append(Junctions(nil), l.Interior[n:]...),
	}, nil
}

// Reanchored rewrites l, which is relative to the chain at context, so
// that it reads the same from target (also relative to context).
func (l Location) Reanchored(target Location, context Junctions) (Location, error) {
	abs, err := l.Absolute(context)
	if err != nil {
		return l, err
	}
	base, err := target.Absolute(context)
	if err != nil {
		return l, err
	}
	return abs.RelativeTo(base)
}

// ParachainID returns the id when l is exactly a parachain seen from the
// relay (parents 0) or a sibling (parents 1).
func (l Location) ParachainID() (uint32, bool) {
	if len(l.Interior) != 1 || l.Parents > 1 {
		return 0, false
	}
	p, ok := l.Interior[0].(Parachain)
	return p.ID, ok
}

// String renders l as "parents/junction/...", the form ParseLocation reads.
func (l Location) String() string {
	s := strconv.Itoa(int(l.Parents))
	if len(l.Interior) == 0 {
		return s
	}
	return s + "/" + l.Interior.String()
}

// ParseLocation reads "parents/junction/..." where a junction is one of
// para:N, pallet:N, index:N, child, key:0x.., key20:0x.. or acc:ID[@network].
// ID is a well-known name, base58 or 0x hex. "here" is Here().
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "here" {
		return Here(), nil
	}
	if s == "parent" {
		return Parent(), nil
	}
	parts := strings.Split(s, "/")
	parents, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return Location{}, errors.Wrapf(types.ErrBadFormat, "location %q parents", s)
	}
	l := Location{Parents: uint8(parents)}
	for _, p := range parts[1:] {
		j, err := parseJunction(p)
		if err != nil {
			return Location{}, errors.Wrapf(err, "location %q", s)
		}
		if l, err = l.Pushed(j); err != nil {
			return Location{}, err
		}
	}
	return l, nil
}

func parseJunction(s string) (Junction, error) {
	if s == "child" {
		return OnlyChild{}, nil
	}
	kv := strings.SplitN(s, ":", 2)
	if len(kv) != 2 {
		return nil, errors.Wrapf(types.ErrBadFormat, "junction %q", s)
	}
	switch kv[0] {
	case "para":
		n, err := strconv.ParseUint(kv[1], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(types.ErrBadFormat, "junction %q", s)
		}
		return Parachain{ID: uint32(n)}, nil
	case "pallet":
		n, err := strconv.ParseUint(kv[1], 10, 8)
		if err != nil {
			return nil, errors.Wrapf(types.ErrBadFormat, "junction %q", s)
		}
		return PalletInstance{Index: uint8(n)}, nil
	case "index":
		n, err := strconv.ParseUint(kv[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(types.ErrBadFormat, "junction %q", s)
		}
		return GeneralIndex{Index: n}, nil
	case "key":
		b, err := hexArg(kv[1])
		if err != nil {
			return nil, errors.Wrapf(types.ErrBadFormat, "junction %q", s)
		}
		return NewGeneralKey(b)
	case "key20":
		b, err := hexArg(kv[1])
		if err != nil || len(b) != 20 {
			return nil, errors.Wrapf(types.ErrBadFormat, "junction %q", s)
		}
		var k AccountKey20
		copy(k.Key[:], b)
		return k, nil
	case "acc":
		id, network := kv[1], AnyNetwork
		if i := strings.LastIndex(id, "@"); i >= 0 {
			n, err := ParseNetwork(id[i+1:])
			if err != nil {
				return nil, errors.Wrapf(types.ErrBadFormat, "junction %q", s)
			}
			id, network = id[:i], n
		}
		if acc, ok := types.WellKnownAccount(id); ok {
			return AccountID32{Network: network, ID: acc}, nil
		}
		acc, err := types.ParseAccountID(id)
		if err != nil {
			return nil, err
		}
		return AccountID32{Network: network, ID: acc}, nil
	}
	return nil, errors.Wrapf(types.ErrBadFormat, "junction %q", s)
}

func hexArg(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, types.ErrBadFormat
	}
	return common.FromHex(s)
}
