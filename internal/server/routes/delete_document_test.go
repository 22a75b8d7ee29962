package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/RangerAkash1/workflow-builder/backend/internal/db"
	"github.com/RangerAkash1/workflow-builder/backend/internal/server/middleware"
)

func deleteDocument(t *testing.T, app *middleware.App, docUUID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/document/"+docUUID, nil)
	rec := httptest.NewRecorder()
	cc := newAppContext(t, app, req, rec)
	cc.SetParamNames("uuid")
	cc.SetParamValues(docUUID)
	if err := DeleteDocumentHandler(cc); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return rec
}

func TestDeleteDocumentHandler_Deletes(t *testing.T) {
	app := &middleware.App{Queries: db.New(&fakeDB{execTag: "DELETE 1"})}

	rec := deleteDocument(t, app, "doc-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); !strings.Contains(body, `"status":"deleted"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestDeleteDocumentHandler_UnknownDocument(t *testing.T) {
	app := &middleware.App{Queries: db.New(&fakeDB{rowErr: pgx.ErrNoRows})}

	rec := deleteDocument(t, app, "missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteDocumentHandler_RowGoneBetweenLoadAndDelete(t *testing.T) {
	app := &middleware.App{Queries: db.New(&fakeDB{execTag: "DELETE 0"})}

	rec := deleteDocument(t, app, "doc-2")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
