package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
		{code: CodeInvalidRefreshToken, status: http.StatusUnauthorized, publicMsg: "invalid refresh token"},
		{code: CodeInvalidPin, status: http.StatusUnauthorized, publicMsg: "invalid pin"},
		{code: CodePinAlreadySet, status: http.StatusConflict, publicMsg: "pin already set"},
		{code: CodeAlreadyOwned, status: http.StatusConflict, publicMsg: "item already owned"},
		{code: CodeAlreadyCompleted, status: http.StatusConflict, publicMsg: "drill already completed"},
		{code: CodeSessionClosed, status: http.StatusConflict, publicMsg: "session is not in progress"},
		{code: CodeInsufficientStars, status: http.StatusBadRequest, publicMsg: "not enough stars", detailsOK: true},
		{code: CodeNoDrillsAvailable, status: http.StatusUnprocessableEntity, publicMsg: "no drills available"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsMatchesWrappedCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeSessionClosed, "closed"))
	if !Is(err, CodeSessionClosed) {
		t.Fatalf("expected Is to find session closed code")
	}
	if Is(err, CodeNotFound) {
		t.Fatalf("unexpected match for not found")
	}
	if Is(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestIsClientFacing(t *testing.T) {
	if !IsClientFacing(CodeAlreadyOwned) {
		t.Fatalf("expected already owned to be client facing")
	}
	if IsClientFacing(CodeInternal) || IsClientFacing(CodeDependency) {
		t.Fatalf("server-side codes must not be client facing")
	}
}

func TestDumpCollectsChainAndCode(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := fmt.Errorf("saving: %w", Wrap(CodeInternal, cause, "persist child"))

	d := Dump(err)
	if d.Code != CodeInternal {
		t.Fatalf("expected internal code, got %s", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
	if d.DB != nil {
		t.Fatalf("expected no db fault for plain errors, got %+v", d.DB)
	}
	if Dump(nil).TopMessage != "" {
		t.Fatalf("expected empty dump for nil")
	}
}

func TestDumpExtractsPostgresFault(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "child_avatar_items_child_id_item_id_key", TableName: "child_avatar_items", Message: "duplicate key value"}
	d := Dump(Wrap(CodeConflict, fmt.Errorf("insert owned item: %w", pgErr), "already owned"))
	if d.DB == nil || d.DB.Driver != "pgx" {
		t.Fatalf("expected pgx fault, got %+v", d.DB)
	}
	if d.DB.Constraint != "child_avatar_items_child_id_item_id_key" || d.DB.Table != "child_avatar_items" {
		t.Fatalf("unexpected fault %+v", d.DB)
	}

	fields := d.Fields()
	if fields["db_code"] != "23505" || fields["error_code"] != CodeConflict {
		t.Fatalf("unexpected fields %v", fields)
	}

	d = Dump(&pq.Error{Code: "23503", Table: "sessions", Constraint: "sessions_child_id_fkey"})
	if d.DB == nil || d.DB.Driver != "pq" || d.DB.Code != "23503" {
		t.Fatalf("expected pq fault, got %+v", d.DB)
	}
	if _, ok := Dump(stdErrors.New("plain")).Fields()["db_code"]; ok {
		t.Fatalf("plain errors must not carry db fields")
	}
}
