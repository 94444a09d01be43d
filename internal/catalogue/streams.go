package catalogue

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

func registerStreams(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "stdin_path", PersistKey: "stdin_path",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.Stdin.Path, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "stdin_path"); err != nil {
				return err
			}
			ctx.Container.Stdin.Path = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "stdout_path", PersistKey: "stdout_path",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.Stdout.Path, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "stdout_path"); err != nil {
				return err
			}
			ctx.Container.Stdout.Path = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "stderr_path", PersistKey: "stderr_path",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.Stderr.Path, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "stderr_path"); err != nil {
				return err
			}
			ctx.Container.Stderr.Path = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "stdout_limit", PersistKey: "stdout_limit",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatSize(ctx.Container.StdoutLimit), nil },
		Set: func(ctx *property.Ctx, v string) error {
			n, err := codec.ParseSize("stdout_limit", v)
			if err != nil {
				return err
			}
			if ctx.Config != nil && ctx.Config.StdoutLimitMax != 0 && n > ctx.Config.StdoutLimitMax {
				return engineerr.InvalidValuef("stdout_limit", v, "exceeds configured maximum %d", ctx.Config.StdoutLimitMax)
			}
			ctx.Container.StdoutLimit = n
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "stdout", PersistKey: "", ReadOnly: true, Indexable: true,
		Description: "captured stdout, indexed by [offset][:length]",
		Get: func(ctx *property.Ctx) (string, error) {
			if err := statemachine.Check(statemachine.RunningRead, ctx.Container, "stdout"); err != nil {
				return "", err
			}
			return readStreamWindow("stdout", ctx.Container.Stdout, 0, -1)
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			if err := statemachine.Check(statemachine.RunningRead, ctx.Container, "stdout"); err != nil {
				return "", err
			}
			offset, length, err := parseStreamIndex("stdout", index)
			if err != nil {
				return "", err
			}
			return readStreamWindow("stdout", ctx.Container.Stdout, offset, length)
		},
	})

	reg.Add(&property.Property{
		Name: "stderr", PersistKey: "", ReadOnly: true, Indexable: true,
		Description: "captured stderr, indexed by [offset][:length]",
		Get: func(ctx *property.Ctx) (string, error) {
			if err := statemachine.Check(statemachine.RunningRead, ctx.Container, "stderr"); err != nil {
				return "", err
			}
			return readStreamWindow("stderr", ctx.Container.Stderr, 0, -1)
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			if err := statemachine.Check(statemachine.RunningRead, ctx.Container, "stderr"); err != nil {
				return "", err
			}
			offset, length, err := parseStreamIndex("stderr", index)
			if err != nil {
				return "", err
			}
			return readStreamWindow("stderr", ctx.Container.Stderr, offset, length)
		},
	})
}

// parseStreamIndex parses the "[offset][:length]" subscript grammar of
// §4.5's stdout/stderr rows. A bare index ("100") is an offset with no
// length cap; "100:50" is an offset plus a byte count.
func parseStreamIndex(prop, index string) (offset int64, length int64, err error) {
	if index == "" {
		return 0, -1, nil
	}
	parts := strings.SplitN(index, ":", 2)
	offset, convErr := strconv.ParseInt(parts[0], 10, 64)
	if convErr != nil || offset < 0 {
		return 0, 0, engineerr.InvalidValuef(prop, index, "invalid offset")
	}
	if len(parts) == 1 {
		return offset, -1, nil
	}
	length, convErr = strconv.ParseInt(parts[1], 10, 64)
	if convErr != nil || length < 0 {
		return 0, 0, engineerr.InvalidValuef(prop, index, "invalid length")
	}
	return offset, length, nil
}

// readStreamWindow reads the stream's backing file starting at offset, up
// to length bytes (length < 0 means "to EOF"), the way the teacher's
// console.go copies a bounded window out of a pty's backing buffer.
func readStreamWindow(prop string, s container.Stream, offset, length int64) (string, error) {
	if s.Path == "" {
		return "", nil
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", engineerr.Unknownf(prop, err, "opening stream file")
	}
	defer f.Close()

	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return "", engineerr.InvalidValuef(prop, strconv.FormatInt(offset, 10), "seek past end of stream")
		}
	}
	if length < 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return "", engineerr.Unknownf(prop, err, "reading stream file")
		}
		return string(data), nil
	}
	buf := make([]byte, length)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", engineerr.Unknownf(prop, err, "reading stream file")
	}
	return string(buf[:n]), nil
}
