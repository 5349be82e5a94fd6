// Package codec implements the delimited text format for trajectories.
//
// A recording is a metadata record followed by one record per sample, each
// terminated by ';':
//
//	<id>:<total_time>;<px>:<py>:<pz>/<rx>:<ry>:<rz>:<rw>/<sx>:<sy>:<sz>;...
//
// Nothing is escaped, so ids must not contain ':', '/' or ';'.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rcliao/ghost-replay/internal/model"
)

const (
	recordSep = ';'
	groupSep  = '/'
	fieldSep  = ':'

	// Reserved lists the characters an id must not contain.
	Reserved = ":/;"
)

// ErrInvalidID is returned for an empty id or one containing reserved characters.
var ErrInvalidID = errors.New("invalid recording id")

// ValidateID reports whether id can be written without corrupting the format.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if i := strings.IndexAny(id, Reserved); i >= 0 {
		return fmt.Errorf("%w: %q contains reserved %q", ErrInvalidID, id, id[i])
	}
	return nil
}

// Encode renders t in the canonical text format.
func Encode(t model.Trajectory) string {
	return string(AppendEncode(nil, t))
}

// AppendEncode appends the encoding of t to dst.
func AppendEncode(dst []byte, t model.Trajectory) []byte {
	dst = append(dst, t.ID...)
	dst = append(dst, fieldSep)
	dst = appendFloat(dst, t.TotalTime)
	dst = append(dst, recordSep)
	for _, s := range t.Samples {
		dst = appendFloats(dst, s.Position.X, s.Position.Y, s.Position.Z)
		dst = append(dst, groupSep)
		dst = appendFloats(dst, s.Rotation.X, s.Rotation.Y, s.Rotation.Z, s.Rotation.W)
		dst = append(dst, groupSep)
		dst = appendFloats(dst, s.Scale.X, s.Scale.Y, s.Scale.Z)
		dst = append(dst, recordSep)
	}
	return dst
}

func appendFloats(dst []byte, vs ...float64) []byte {
	for i, v := range vs {
		if i > 0 {
			dst = append(dst, fieldSep)
		}
		dst = appendFloat(dst, v)
	}
	return dst
}

// appendFloat uses the shortest decimal that parses back to v, never an
// exponent, so rounded values print as written (1.235, not 1.2350000001).
func appendFloat(dst []byte, v float64) []byte {
	return strconv.AppendFloat(dst, v, 'f', -1, 64)
}

// Decode parses text produced by Encode. Any malformed record is an error;
// the text must end with the record separator, so a truncated write is
// rejected rather than decoded short.
func Decode(text string) (model.Trajectory, error) {
	records := strings.Split(text, string(recordSep))
	last := len(records) - 1
	if len(records) < 2 {
		return model.Trajectory{}, &FormatError{Record: 0, Reason: "missing metadata record"}
	}
	if records[last] != "" {
		return model.Trajectory{}, &FormatError{Record: last, Reason: "unterminated record"}
	}
	records = records[:last]

	id, total, err := parseHeader(records[0])
	if err != nil {
		return model.Trajectory{}, err
	}

	t := model.Trajectory{ID: id, TotalTime: total}
	if len(records) > 1 {
		t.Samples = make([]model.Sample, 0, len(records)-1)
	}
	for i, rec := range records[1:] {
		s, err := parseSample(i+1, rec)
		if err != nil {
			return model.Trajectory{}, err
		}
		t.Samples = append(t.Samples, s)
	}
	return t, nil
}

// DecodeHeader reads only the metadata record from r.
func DecodeHeader(r io.Reader) (id string, totalTime float64, err error) {
	br := bufio.NewReader(r)
	rec, err := br.ReadString(recordSep)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", 0, &FormatError{Record: 0, Reason: "missing metadata record"}
		}
		return "", 0, err
	}
	return parseHeader(strings.TrimSuffix(rec, string(recordSep)))
}

func parseHeader(rec string) (string, float64, error) {
	fields := strings.Split(rec, string(fieldSep))
	if len(fields) != 2 {
		return "", 0, &FormatError{Record: 0, Reason: fmt.Sprintf("want 2 fields, got %d", len(fields))}
	}
	if fields[0] == "" {
		return "", 0, &FormatError{Record: 0, Field: "id", Reason: "empty"}
	}
	total, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "", 0, &FormatError{Record: 0, Field: "time", Reason: "not a number", Err: err}
	}
	return fields[0], total, nil
}

func parseSample(idx int, rec string) (model.Sample, error) {
	groups := strings.Split(rec, string(groupSep))
	if len(groups) != 3 {
		return model.Sample{}, &FormatError{Record: idx, Reason: fmt.Sprintf("want 3 groups, got %d", len(groups))}
	}

	var pos, rot, scale [4]float64
	if err := parseGroup(idx, "position", groups[0], pos[:3]); err != nil {
		return model.Sample{}, err
	}
	if err := parseGroup(idx, "rotation", groups[1], rot[:4]); err != nil {
		return model.Sample{}, err
	}
	if err := parseGroup(idx, "scale", groups[2], scale[:3]); err != nil {
		return model.Sample{}, err
	}

	return model.Sample{
		Position: model.Vec3{X: pos[0], Y: pos[1], Z: pos[2]},
		Rotation: model.Quat{X: rot[0], Y: rot[1], Z: rot[2], W: rot[3]},
		Scale:    model.Vec3{X: scale[0], Y: scale[1], Z: scale[2]},
	}, nil
}

func parseGroup(idx int, name, group string, out []float64) error {
	parts := strings.Split(group, string(fieldSep))
	if len(parts) != len(out) {
		return &FormatError{
			Record: idx,
			Field:  name,
			Reason: fmt.Sprintf("want %d components, got %d", len(out), len(parts)),
		}
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return &FormatError{Record: idx, Field: name, Reason: "not a number", Err: err}
		}
		out[i] = v
	}
	return nil
}
