// Package view composes the server-rendered pages. Pages read only through
// the gateway's query operations; they hold no state of their own.
package view

import (
	"strconv"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/olivernygren/sponge-boss/internal/domain"
)

func layout(title string, principal *domain.User, body ...Node) Node {
	nav := []Node{A(Href("/"), Class("brand"), Text("Sponge Boss"))}
	if principal != nil {
		if principal.IsAdmin() {
			nav = append(nav, A(Href("/admin"), Text("Admin")))
		}
		nav = append(nav,
			Span(Class("who"), Text(principal.Name)),
			A(Href("/auth/logout"), Text("Sign out")),
		)
	} else {
		nav = append(nav, A(Href("/auth/login"), Class("btn"), Text("Sign in with Google")))
	}

	return HTML(
		Lang("sv"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Sponge Boss")),
			Link(Rel("stylesheet"), Href("/static/app.css")),
		),
		Body(
			Header(Nav(nav...)),
			Main(body...),
		),
	)
}

// SignInPage is the home page for anonymous viewers.
func SignInPage() Node {
	return layout("Sign in", nil,
		H1(Text("Staff scheduling")),
		P(Text("Sign in with your work Google account to see the schedule.")),
	)
}

// HomePage shows the reminder checklist to any signed-in user.
func HomePage(principal *domain.User, items []domain.ChecklistItem) Node {
	return layout("Home", principal,
		H1(Text("Remember")),
		checklist(items),
	)
}

// UnauthorizedPage is shown when sign-in fails the domain allow-list.
func UnauthorizedPage() Node {
	return layout("Unauthorized", nil,
		H1(Text("Not authorized")),
		P(Text("Your account's email domain is not allowed here. Ask an administrator if you think this is wrong.")),
		A(Href("/"), Text("Back to start")),
	)
}

// AdminShell wraps admin content in the per-viewer layout. The content
// fragment is what gets cached; the shell is rendered fresh per request.
func AdminShell(principal *domain.User, content Node) Node {
	return layout("Admin", principal, content)
}

// AdminContent composes the user directory and the checklist manager. This
// fragment is identical for every admin viewer and is cached under the admin
// view scope.
func AdminContent(users []domain.User, items []domain.ChecklistItem) Node {
	return Div(Class("admin"),
		H1(Text("Administration")),
		Section(
			H2(Text("Users")),
			userTable(users),
		),
		Section(
			H2(Text("Reminder texts")),
			checklist(items),
		),
	)
}

func checklist(items []domain.ChecklistItem) Node {
	if len(items) == 0 {
		return P(Class("empty"), Text("Nothing to remember yet."))
	}
	rows := make([]Node, 0, len(items))
	for _, item := range items {
		rows = append(rows, Li(
			Data("id", item.ID),
			Data("order", strconv.Itoa(item.Order)),
			Text(item.Text),
		))
	}
	return Ol(Class("checklist"), Group(rows))
}

func userTable(users []domain.User) Node {
	rows := make([]Node, 0, len(users))
	for _, user := range users {
		status := "Active"
		if user.IsDormant {
			status = "Dormant"
		}
		rows = append(rows, Tr(
			Data("id", user.ID),
			Td(Text(user.Name)),
			Td(Text(user.Email)),
			Td(Text(string(user.Role))),
			Td(Text(status)),
		))
	}
	return Table(Class("users"),
		THead(Tr(
			Th(Text("Name")), Th(Text("Email")), Th(Text("Role")), Th(Text("Status")),
		)),
		TBody(rows...),
	)
}
