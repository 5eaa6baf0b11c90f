package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(Validationf("bad input")); got != KindValidation {
		t.Errorf("KindOf(validation) = %v, want KindValidation", got)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain error) = %v, want KindInternal", got)
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFoundf("patient %s not found", "P1"))
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(wrapped) = false, want true")
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("HTTPStatus = %d, want 404", HTTPStatus(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validationf("x"), http.StatusBadRequest},
		{NotFoundf("x"), http.StatusNotFound},
		{Conflictf("x"), http.StatusConflict},
		{Unauthorizedf("x"), http.StatusUnauthorized},
		{Forbiddenf("x"), http.StatusForbidden},
		{Internalf("x"), http.StatusInternalServerError},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindInternal, cause, "load patient")
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if err.Error() != "load patient: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}
