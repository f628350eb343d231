package router

import (
	"context"
)

const loginTitle = "Вход | Messenger"

// testTable mirrors the shape of the application's table with in-memory
// loaders.
func testTable() *Table {
	return MustTable(
		Route{Path: "/", Name: "login", View: Eager(View{ID: "LoginPage"}), Meta: Meta{MetaTitle: loginTitle}},
		Route{Path: "/register", Name: "register", View: Lazy("RegistrationPage", func(context.Context) (View, error) {
			return View{ID: "RegistrationPage", Bundle: []byte("register")}, nil
		})},
		Route{Path: "/dashboard", Name: "dashboard", View: Lazy("DashboardView", func(context.Context) (View, error) {
			return View{}, nil
		})},
		Route{Path: "/forgot-password", View: Eager(View{ID: "ForgotPassword"})},
		Route{Path: "/reset-password", View: Eager(View{ID: "ResetPassword"})},
	)
}
