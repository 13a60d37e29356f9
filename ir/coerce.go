package ir

import (
	"encoding/base64"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var errRange = errors.New("out of range")

// timeLayouts are tried in order when converting text to a time.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// To converts v to kind k. An absent value converts to the zero value of
// every kind.
func (v Value) To(k Kind) (Value, error) {
	if v.Kind == k {
		return v, nil
	}
	if v.Kind == AbsentKind {
		return Value{Kind: k}, nil
	}
	if v.Kind == ExtKind {
		return v.Ext.convert(k)
	}
	switch k {
	case AbsentKind:
		return Absent(), nil
	case StringKind:
		s, err := v.ToString()
		return StringValue(s), err
	case IntKind:
		i, err := v.ToInt()
		return IntValue(i), err
	case UintKind:
		u, err := v.ToUint()
		return UintValue(u), err
	case FloatKind:
		f, err := v.ToFloat()
		return FloatValue(f), err
	case BoolKind:
		b, err := v.ToBool()
		return BoolValue(b), err
	case TimeKind:
		t, err := v.ToTime()
		return TimeValue(t), err
	case BytesKind:
		d, err := v.ToBytes()
		return BytesValue(d), err
	case RefKind:
		n, err := v.ToNode()
		return RefValue(n), err
	}
	return Absent(), mismatch(v.Kind, k, nil)
}

func (v Value) ToString() (string, error) {
	switch v.Kind {
	case AbsentKind:
		return "", nil
	case StringKind:
		return v.Str, nil
	case IntKind:
		return strconv.FormatInt(v.Int, 10), nil
	case UintKind:
		return strconv.FormatUint(v.Uint, 10), nil
	case FloatKind:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case BoolKind:
		return strconv.FormatBool(v.Bool), nil
	case TimeKind:
		return v.Time.Format(time.RFC3339Nano), nil
	case BytesKind:
		return base64.StdEncoding.EncodeToString(v.Bytes), nil
	case ExtKind:
		res, err := v.Ext.convert(StringKind)
		return res.Str, err
	}
	return "", mismatch(v.Kind, StringKind, nil)
}

func (v Value) ToInt() (int64, error) {
	switch v.Kind {
	case AbsentKind:
		return 0, nil
	case StringKind:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return 0, mismatch(v.Kind, IntKind, err)
		}
		return i, nil
	case IntKind:
		return v.Int, nil
	case UintKind:
		if v.Uint > math.MaxInt64 {
			return 0, mismatch(v.Kind, IntKind, errRange)
		}
		return int64(v.Uint), nil
	case FloatKind:
		if math.IsNaN(v.Float) || v.Float > math.MaxInt64 || v.Float < math.MinInt64 {
			return 0, mismatch(v.Kind, IntKind, errRange)
		}
		return int64(v.Float), nil
	case BoolKind:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case ExtKind:
		res, err := v.Ext.convert(IntKind)
		return res.Int, err
	}
	return 0, mismatch(v.Kind, IntKind, nil)
}

func (v Value) ToUint() (uint64, error) {
	switch v.Kind {
	case AbsentKind:
		return 0, nil
	case StringKind:
		u, err := strconv.ParseUint(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return 0, mismatch(v.Kind, UintKind, err)
		}
		return u, nil
	case UintKind:
		return v.Uint, nil
	case IntKind:
		if v.Int < 0 {
			return 0, mismatch(v.Kind, UintKind, errRange)
		}
		return uint64(v.Int), nil
	case FloatKind:
		if math.IsNaN(v.Float) || v.Float < 0 || v.Float > math.MaxUint64 {
			return 0, mismatch(v.Kind, UintKind, errRange)
		}
		return uint64(v.Float), nil
	case BoolKind:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case ExtKind:
		res, err := v.Ext.convert(UintKind)
		return res.Uint, err
	}
	return 0, mismatch(v.Kind, UintKind, nil)
}

func (v Value) ToFloat() (float64, error) {
	switch v.Kind {
	case AbsentKind:
		return 0, nil
	case StringKind:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, mismatch(v.Kind, FloatKind, err)
		}
		return f, nil
	case IntKind:
		return float64(v.Int), nil
	case UintKind:
		return float64(v.Uint), nil
	case FloatKind:
		return v.Float, nil
	case BoolKind:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case ExtKind:
		res, err := v.Ext.convert(FloatKind)
		return res.Float, err
	}
	return 0, mismatch(v.Kind, FloatKind, nil)
}

func (v Value) ToBool() (bool, error) {
	switch v.Kind {
	case AbsentKind:
		return false, nil
	case StringKind:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Str))
		if err != nil {
			return false, mismatch(v.Kind, BoolKind, err)
		}
		return b, nil
	case IntKind:
		return v.Int != 0, nil
	case UintKind:
		return v.Uint != 0, nil
	case FloatKind:
		return v.Float != 0, nil
	case BoolKind:
		return v.Bool, nil
	case ExtKind:
		res, err := v.Ext.convert(BoolKind)
		return res.Bool, err
	}
	return false, mismatch(v.Kind, BoolKind, nil)
}

func (v Value) ToTime() (time.Time, error) {
	switch v.Kind {
	case AbsentKind:
		return time.Time{}, nil
	case TimeKind:
		return v.Time, nil
	case StringKind:
		s := strings.TrimSpace(v.Str)
		var err error
		for _, layout := range timeLayouts {
			var t time.Time
			t, err = time.Parse(layout, s)
			if err == nil {
				return t, nil
			}
		}
		return time.Time{}, mismatch(v.Kind, TimeKind, err)
	case ExtKind:
		res, err := v.Ext.convert(TimeKind)
		return res.Time, err
	}
	return time.Time{}, mismatch(v.Kind, TimeKind, nil)
}

func (v Value) ToBytes() ([]byte, error) {
	switch v.Kind {
	case AbsentKind:
		return nil, nil
	case BytesKind:
		return v.Bytes, nil
	case StringKind:
		return []byte(v.Str), nil
	case ExtKind:
		res, err := v.Ext.convert(BytesKind)
		return res.Bytes, err
	}
	return nil, mismatch(v.Kind, BytesKind, nil)
}

// ToNode returns the node a reference value points at.
func (v Value) ToNode() (*Node, error) {
	switch v.Kind {
	case AbsentKind:
		return nil, nil
	case RefKind:
		return v.Ref, nil
	case ExtKind:
		res, err := v.Ext.convert(RefKind)
		return res.Ref, err
	}
	return nil, mismatch(v.Kind, RefKind, nil)
}
