// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"github.com/33cn/paraxcm/common"
	"github.com/33cn/paraxcm/queue"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// horizontal channel formats, the first byte of every horizontal message
const (
	formatPlain  byte = 0
	formatSnappy byte = 1
)

// maxFrameLen bounds the decoded size of a compressed horizontal message.
const maxFrameLen = 1 << 20

// Router places the messages of one chain into its outbox. The relay
// reaches its children downward; a parachain reaches the relay upward and
// its siblings horizontally.
type Router struct {
	id       uint32
	compress bool
	outbox   *queue.Queue
}

// route returns the channel toward dest and the sender location the
// receiver will see.
func (r *Router) route(dest xcm.Location) (queue.ChannelKey, xcm.Location, error) {
	if r.id == types.RelayParaID {
		if id, ok := dest.ParachainID(); ok && dest.Parents == 0 {
			return queue.ChannelKey{Kind: queue.Downward, From: r.id, To: id}, xcm.Parent(), nil
		}
		return queue.ChannelKey{}, xcm.Location{}, errors.Wrapf(types.ErrUnroutable, "relay to %s", dest)
	}
	if dest.Equal(xcm.Parent()) {
		return queue.ChannelKey{Kind: queue.Upward, From: r.id, To: types.RelayParaID}, xcm.ParachainLocation(r.id), nil
	}
	if id, ok := dest.ParachainID(); ok && dest.Parents == 1 && id != r.id {
		return queue.ChannelKey{Kind: queue.Horizontal, From: r.id, To: id}, xcm.SiblingLocation(r.id), nil
	}
	return queue.ChannelKey{}, xcm.Location{}, errors.Wrapf(types.ErrUnroutable, "para %d to %s", r.id, dest)
}

// SendXcm implements executor.Router.
func (r *Router) SendXcm(dest xcm.Location, msg xcm.Xcm) ([32]byte, error) {
	key, sender, err := r.route(dest)
	if err != nil {
		return [32]byte{}, err
	}
	data := xcm.Encode(xcm.NewVersionedXcm(msg))
	hash := common.Blake2b256(data)
	if key.Kind == queue.Horizontal {
		data = encodeFrame(data, r.compress)
	}
	r.outbox.Enqueue(key, sender, data)
	rlog.Debug("SendXcm", "channel", key, "hash", common.ToHex(hash[:]), "msg", msg.Names())
	return hash, nil
}

func encodeFrame(data []byte, compress bool) []byte {
	if !compress {
		return append([]byte{formatPlain}, data...)
	}
	return append([]byte{formatSnappy}, snappy.Encode(nil, data)...)
}

func decodeFrame(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, errors.Wrap(types.ErrBadFormat, "empty frame")
	}
	switch frame[0] {
	case formatPlain:
		return frame[1:], nil
	case formatSnappy:
		n, err := snappy.DecodedLen(frame[1:])
		if err != nil {
			return nil, errors.Wrap(types.ErrBadFormat, err.Error())
		}
		if n > maxFrameLen {
			return nil, errors.Wrapf(types.ErrBadFormat, "frame length %d", n)
		}
		data, err := snappy.Decode(nil, frame[1:])
		if err != nil {
			return nil, errors.Wrap(types.ErrBadFormat, err.Error())
		}
		return data, nil
	}
	return nil, errors.Wrapf(types.ErrBadFormat, "frame format %d", frame[0])
}
