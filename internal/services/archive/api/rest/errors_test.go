package rest

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/louisbranch/grimoire.space/internal/platform/errors"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

func TestClassifyErrorStorageSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   apperrors.Code
		wantStatus int
	}{
		{"not found", storage.ErrNotFound, apperrors.CodeNotFound, http.StatusNotFound},
		{"stale data", storage.ErrStaleData, apperrors.CodeStaleData, http.StatusConflict},
		{"already exists", storage.ErrAlreadyExists, apperrors.CodeAlreadyExists, http.StatusConflict},
		{"wrapped already exists", fmt.Errorf("create character: %w", storage.ErrAlreadyExists), apperrors.CodeAlreadyExists, http.StatusConflict},
		{"unknown", fmt.Errorf("disk on fire"), apperrors.CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := classifyError(tt.err)
			if appErr.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", appErr.Code, tt.wantCode)
			}
			if got := httpStatus(appErr); got != tt.wantStatus {
				t.Fatalf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestClassifyErrorRelatedResource(t *testing.T) {
	t.Parallel()

	appErr := classifyError(&storage.RelatedResourceError{Resource: "player", ID: "p-1"})
	if appErr.Code != apperrors.CodeRelatedResourceNotFound {
		t.Fatalf("code = %q", appErr.Code)
	}
	if appErr.Metadata["Resource"] != "player" || appErr.Metadata["ID"] != "p-1" {
		t.Fatalf("metadata = %v", appErr.Metadata)
	}
	if got := httpStatus(appErr); got != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", got, http.StatusNotFound)
	}
}
