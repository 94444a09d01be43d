// Package rpcstub is the RPC stand-in collaborator of SPEC_FULL.md §5.4: an
// in-process Dispatch used over a trivial length-prefixed Unix-socket frame
// so cmd/portoctl and cmd/portod are exercisable end-to-end without a real
// wire protocol (out of scope per spec.md §1). Nothing here specifies an
// actual wire format — it is a harness, not a protocol.
package rpcstub

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/ChatWorks/porto/internal/engine"
	"github.com/ChatWorks/porto/internal/engineerr"
)

// Request is one client call, framed as a whitespace-separated verb plus
// arguments (a harness grammar, not the spec's wire format).
type Request struct {
	Verb string
	Args []string
}

// Response carries either a successful payload or an error kind+message.
type Response struct {
	OK      bool
	Values  []string
	ErrKind string
	ErrMsg  string
}

// Dispatch routes req to the matching engine.Engine method. It is the only
// place that translates between the harness's string grammar and typed
// engine calls.
func Dispatch(e *engine.Engine, req Request) Response {
	switch req.Verb {
	case "list_properties":
		if len(req.Args) != 1 {
			return errResponse(engineerr.InvalidValuef("list_properties", "", "expected: container"))
		}
		names, err := e.ListProperties(req.Args[0])
		if err != nil {
			return errResponse(err)
		}
		return Response{OK: true, Values: names}

	case "get":
		if len(req.Args) != 2 {
			return errResponse(engineerr.InvalidValuef("get", "", "expected: container property"))
		}
		v, err := e.Get(req.Args[0], req.Args[1])
		if err != nil {
			return errResponse(err)
		}
		return Response{OK: true, Values: []string{v}}

	case "get_indexed":
		if len(req.Args) != 3 {
			return errResponse(engineerr.InvalidValuef("get_indexed", "", "expected: container property index"))
		}
		v, err := e.GetIndexed(req.Args[0], req.Args[1], req.Args[2])
		if err != nil {
			return errResponse(err)
		}
		return Response{OK: true, Values: []string{v}}

	case "set":
		if len(req.Args) != 3 {
			return errResponse(engineerr.InvalidValuef("set", "", "expected: container property value"))
		}
		if err := e.Set(req.Args[0], req.Args[1], req.Args[2]); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	case "set_indexed":
		if len(req.Args) != 4 {
			return errResponse(engineerr.InvalidValuef("set_indexed", "", "expected: container property index value"))
		}
		if err := e.SetIndexed(req.Args[0], req.Args[1], req.Args[2], req.Args[3]); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	case "create":
		if len(req.Args) != 1 {
			return errResponse(engineerr.InvalidValuef("create", "", "expected: name"))
		}
		if err := e.Create(req.Args[0]); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	default:
		return errResponse(engineerr.InvalidPropertyf(req.Verb, "unknown verb"))
	}
}

func errResponse(err error) Response {
	return Response{OK: false, ErrKind: engineerr.Of(err).String(), ErrMsg: err.Error()}
}

// WriteRequest/ReadRequest and WriteResponse/ReadResponse implement
// the length-prefixed frame the harness uses over a Unix socket: a 4-byte
// big-endian length followed by that many bytes of a simple tab-joined
// text encoding. No relation to the real wire format spec.md leaves open.

func writeFrame(w io.Writer, payload string) error {
	buf := []byte(payload)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(buf)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

func readFrame(r *bufio.Reader) (string, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteRequest serializes req as "verb\targ1\targ2..." and frames it onto
// conn.
func WriteRequest(conn net.Conn, req Request) error {
	parts := append([]string{req.Verb}, req.Args...)
	return writeFrame(conn, strings.Join(parts, "\t"))
}

// ReadRequest reads one framed request off r.
func ReadRequest(r *bufio.Reader) (Request, error) {
	line, err := readFrame(r)
	if err != nil {
		return Request{}, err
	}
	parts := strings.Split(line, "\t")
	return Request{Verb: parts[0], Args: parts[1:]}, nil
}

// WriteResponse serializes resp as either "OK\tval1\tval2..." or
// "ERR\tkind\tmessage" and frames it onto conn.
func WriteResponse(conn net.Conn, resp Response) error {
	var parts []string
	if resp.OK {
		parts = append([]string{"OK"}, resp.Values...)
	} else {
		parts = []string{"ERR", resp.ErrKind, resp.ErrMsg}
	}
	return writeFrame(conn, strings.Join(parts, "\t"))
}

// ReadResponse reads one framed response off r.
func ReadResponse(r *bufio.Reader) (Response, error) {
	line, err := readFrame(r)
	if err != nil {
		return Response{}, err
	}
	parts := strings.Split(line, "\t")
	if len(parts) == 0 {
		return Response{}, fmt.Errorf("rpcstub: empty response frame")
	}
	switch parts[0] {
	case "OK":
		return Response{OK: true, Values: parts[1:]}, nil
	case "ERR":
		resp := Response{OK: false}
		if len(parts) > 1 {
			resp.ErrKind = parts[1]
		}
		if len(parts) > 2 {
			resp.ErrMsg = parts[2]
		}
		return resp, nil
	default:
		return Response{}, fmt.Errorf("rpcstub: malformed response frame %q", line)
	}
}
