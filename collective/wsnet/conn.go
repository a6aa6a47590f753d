// SPDX-License-Identifier: MIT

package wsnet

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/matrix"
)

// Path is the HTTP path the coordinator upgrades on.
const Path = "/distmm"

// writeFrame encodes f and sends it as one binary message within d.
func writeFrame(conn *websocket.Conn, f Frame, compress bool, d time.Duration) error {
	b, err := Encode(f, compress)
	if err != nil {
		return err
	}
	if err = conn.SetWriteDeadline(time.Now().Add(d)); err != nil {
		return classify(err)
	}
	if err = conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return classify(err)
	}

	return nil
}

// writeRaw sends an already encoded frame within d.
func writeRaw(conn *websocket.Conn, b []byte, d time.Duration) error {
	if err := conn.SetWriteDeadline(time.Now().Add(d)); err != nil {
		return classify(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return classify(err)
	}

	return nil
}

// readFrame receives one frame of kind want within d.
func readFrame(conn *websocket.Conn, want Kind, d time.Duration) (Frame, error) {
	if err := conn.SetReadDeadline(time.Now().Add(d)); err != nil {
		return Frame{}, classify(err)
	}
	mt, b, err := conn.ReadMessage()
	if err != nil {
		return Frame{}, classify(err)
	}
	if mt != websocket.BinaryMessage {
		return Frame{}, fmt.Errorf("wsnet: message type %d: %w", mt, collective.ErrProtocol)
	}
	f, err := Decode(b)
	if err != nil {
		return Frame{}, err
	}
	if f.Kind != want {
		return Frame{}, fmt.Errorf("wsnet: got %s, want %s: %w", f.Kind, want, collective.ErrProtocol)
	}

	return f, nil
}

// classify maps connection errors onto the collective causes.
func classify(err error) error {
	var (
		ne net.Error
		ce *websocket.CloseError
	)
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("%w: %w", collective.ErrTimeout, err)
	case errors.As(err, &ce),
		errors.Is(err, websocket.ErrCloseSent),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %w", collective.ErrClosed, err)
	default:
		return err
	}
}

// closeConn sends a normal close frame and releases conn.
func closeConn(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = conn.Close()
}

// blockFrame wraps a row block in a frame addressed to or sent by rank.
func blockFrame(kind Kind, rank int, b matrix.RowBlock) Frame {
	return Frame{Kind: kind, Rank: rank, Offset: b.Offset, Rows: b.Rows, Cols: b.Cols, Data: b.Data}
}

// frameBlock extracts the row block carried by f.
func frameBlock(f Frame) (matrix.RowBlock, error) {
	b := matrix.RowBlock{Offset: f.Offset, Rows: f.Rows, Cols: f.Cols, Data: f.Data}
	if err := b.Validate(); err != nil {
		return matrix.RowBlock{}, fmt.Errorf("wsnet: %s block: %w: %w", f.Kind, collective.ErrProtocol, err)
	}

	return b, nil
}
