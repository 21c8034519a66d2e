// Package http provides the JSON API server and its handlers.
//
// This file decodes entry payloads and query parameters into core input
// types. Field presence is tracked so partial updates only touch what the
// client sent.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"contas/internal/core"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Wire field names.
const (
	fieldDate        = "data"
	fieldCategory    = "categoria"
	fieldDescription = "descricao"
	fieldAmount      = "valor"

	paramStart    = "data_inicio"
	paramEnd      = "data_fim"
	paramCategory = "categoria"
)

// DecodeEntryPayload reads a JSON object body into a RawEntry. Absent keys
// stay nil; null values and wrong JSON types are validation errors. An empty
// body decodes to an empty RawEntry.
func DecodeEntryPayload(w http.ResponseWriter, r *http.Request) (core.RawEntry, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return core.RawEntry{}, core.InvalidField("", "request body too large or unreadable")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return core.RawEntry{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return core.RawEntry{}, core.InvalidField("", "body must be a JSON object")
	}

	var raw core.RawEntry
	for _, f := range []struct {
		name string
		dst  **string
	}{
		{fieldDate, &raw.Date},
		{fieldCategory, &raw.Category},
		{fieldDescription, &raw.Description},
	} {
		v, ok := fields[f.name]
		if !ok {
			continue
		}
		s, err := decodeString(f.name, v)
		if err != nil {
			return core.RawEntry{}, err
		}
		*f.dst = &s
	}

	if v, ok := fields[fieldAmount]; ok {
		s, err := decodeNumber(v)
		if err != nil {
			return core.RawEntry{}, err
		}
		raw.Amount = &s
	}

	return raw, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func decodeString(field string, v json.RawMessage) (string, error) {
	if isNull(v) {
		return "", core.InvalidField(field, "must not be null")
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", core.InvalidField(field, "must be a string")
	}
	return s, nil
}

// decodeNumber accepts a JSON number or a string holding one; the amount
// parser does the numeric validation.
func decodeNumber(v json.RawMessage) (string, error) {
	if isNull(v) {
		return "", core.InvalidField(fieldAmount, "must not be null")
	}
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", core.InvalidField(fieldAmount, "must be a number")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", core.InvalidField(fieldAmount, "must be a number")
	}
	return n.String(), nil
}

// ParseRangeParams reads data_inicio and data_fim.
func ParseRangeParams(q url.Values) (core.DateRange, error) {
	return core.ParseRange(q.Get(paramStart), q.Get(paramEnd))
}

// ParseFilterParams reads the list filter. An empty categoria matches all;
// any other value must equal the stored category byte for byte.
func ParseFilterParams(q url.Values) (core.Filter, error) {
	rng, err := ParseRangeParams(q)
	if err != nil {
		return core.Filter{}, err
	}
	return core.Filter{DateRange: rng, Category: q.Get(paramCategory)}, nil
}

var errBadID = errors.New("invalid id")

// ParseID reads the {id} path segment. Only positive integers are ids.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}
