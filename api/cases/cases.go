package cases

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"XuLyNoSaas/internal/config"
	"XuLyNoSaas/internal/storage"
)

// StartCaseService wires the case endpoints and blocks serving them. The
// gateway proxies /cases/ here.
func StartCaseService(pool *pgxpool.Pool, root *storage.SafeRoot) {
	store := NewStore(pool)
	staging := storage.NewStagingArea(root)
	relocator := storage.NewRelocator(root)

	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/cases/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Cases Service is active"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/cases/import/internal", ImportInternalCases(store)).Methods(http.MethodPost)
	r.HandleFunc("/cases/import/external", ImportExternalCases(store)).Methods(http.MethodPost)

	r.HandleFunc("/cases", ListCases(store)).Methods(http.MethodGet)
	r.HandleFunc("/cases/my", ListMyCases(store)).Methods(http.MethodGet)

	r.HandleFunc("/cases/documents/{documentId}/download", DownloadDocument(store, root)).Methods(http.MethodGet)
	r.HandleFunc("/cases/documents/{documentId}", DeleteDocument(store, root)).Methods(http.MethodDelete)

	r.HandleFunc("/cases/{caseId}", GetCaseDetail(store)).Methods(http.MethodGet)
	r.HandleFunc("/cases/{caseId}/status", UpdateCaseStatus(store)).Methods(http.MethodPatch)
	r.HandleFunc("/cases/{caseId}/updates", ListCaseUpdates(store)).Methods(http.MethodGet)
	r.HandleFunc("/cases/{caseId}/updates", AddCaseUpdate(store)).Methods(http.MethodPost)
	r.HandleFunc("/cases/{caseId}/documents", UploadDocument(store, staging, relocator, root)).Methods(http.MethodPost)

	addr := ":" + config.CasesPort()
	log.Println("Cases Service started on", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Cases Service failed: %v", err)
	}
}
