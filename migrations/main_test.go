package main

import "testing"

func TestGetPostgresDSN(t *testing.T) {
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "problems")

	want := "postgres://user:p%40ss@db:5433/problems?sslmode=disable"
	if got := getPostgresDSN(); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
