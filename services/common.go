package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/apperrors"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is a limit/offset window over a listing
type Page struct {
	Limit  int
	Offset int
}

// normalize clamps the page to sane bounds.
func (p Page) normalize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// StringList is a list of strings that also accepts a comma separated string
// when decoded from JSON.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitList(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("must be a list of strings or a comma separated string")
	}
	*l = list
	return nil
}

// SplitList splits a comma separated string, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lookup maps repository errors to client-facing ones. ErrNotFound becomes a
// 404 carrying msg, anything else an internal error.
func lookup(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return apperrors.Internal("", err)
}

// internal wraps a storage failure. Application errors pass through unchanged.
func internal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal("", err)
}

func uintPtr(v uint) *uint {
	return &v
}
