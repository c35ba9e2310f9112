package users

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"XuLyNoSaas/internal/config"
)

// StartUserService wires the account-administration endpoints and blocks
// serving them. The gateway proxies /users/ here.
func StartUserService(db *sql.DB) {
	store := NewStore(db)

	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/users/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Users Service is active"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/users", CreateUser(store)).Methods(http.MethodPost)
	r.HandleFunc("/users", ListUsers(store)).Methods(http.MethodGet)
	r.HandleFunc("/users/managed", ListManagedOfficers(store)).Methods(http.MethodGet)

	r.HandleFunc("/users/{employeeCode}", GetUser(store)).Methods(http.MethodGet)
	r.HandleFunc("/users/{employeeCode}", UpdateUser(store)).Methods(http.MethodPatch)
	r.HandleFunc("/users/{employeeCode}", DeleteUser(store)).Methods(http.MethodDelete)
	r.HandleFunc("/users/{employeeCode}/password", ChangePassword(store)).Methods(http.MethodPatch)

	addr := ":" + config.UsersPort()
	log.Println("Users Service started on", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Users Service failed: %v", err)
	}
}
