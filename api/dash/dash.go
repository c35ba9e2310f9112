package dash

import (
	"database/sql"
	"log"
	"net/http"

	"XuLyNoSaas/internal/config"
)

func StartDashService(db *sql.DB) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dash/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Dashboard Service is active"))
	})

	mux.Handle("/dash/overview", GetOverview(db))
	mux.Handle("/dash/by-status", GetCasesByStatus(db))
	mux.Handle("/dash/by-department", GetCasesByDepartment(db))
	mux.Handle("/dash/by-branch", GetCasesByBranch(db))
	mux.Handle("/dash/by-officer", GetCasesByOfficer(db))
	mux.Handle("/dash/recent-activity", GetRecentActivity(db))

	addr := ":" + config.DashPort()
	log.Println("Dashboard Service started on", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Dashboard Service failed: %v", err)
	}
}
