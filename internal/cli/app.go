// Package cli is the terminal adapter for the login and dashboard
// controllers.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/edvin/crmpanel/internal/crmapi"
	"github.com/edvin/crmpanel/internal/dashboard"
	"github.com/edvin/crmpanel/internal/login"
	"github.com/edvin/crmpanel/internal/model"
	"github.com/edvin/crmpanel/internal/session"
	"github.com/edvin/crmpanel/internal/ui"
)

// API is what the terminal client needs from the CRM client.
type API interface {
	login.Authenticator
	dashboard.API
}

// App runs one crmctl command.
type App struct {
	Out   io.Writer
	Err   io.Writer
	In    io.Reader
	Store session.Store
	API   API
	// StatePath is shown by the status command.
	StatePath string
}

// Run executes args (command first) and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		a.printUsage()
		return 2
	}

	var err error
	term := &Terminal{Out: a.Out, Err: a.Err, In: a.In}

	switch args[0] {
	case "login":
		err = a.cmdLogin(ctx, term, args[1:])
	case "logout":
		return a.cmdLogout(ctx, term)
	case "status":
		return a.cmdStatus(ctx)
	case "customers":
		a.dashboard().Init(ctx, term)
	case "add":
		err = a.cmdAdd(ctx, term, args[1:])
	case "edit":
		err = a.cmdEdit(ctx, term, args[1:])
	case "delete":
		err = a.cmdDelete(ctx, term, args[1:])
	case "contacts":
		if d := a.dashboard(); d.Guard(ctx, term) {
			d.LoadContacts(ctx, term)
		}
	case "contact":
		err = a.cmdContact(ctx, term, args[1:])
	case "help", "-h", "-help", "--help":
		a.printUsage()
		return 0
	default:
		fmt.Fprintf(a.Err, "Unknown command: %s\n", args[0])
		a.printUsage()
		return 2
	}

	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(a.Err, "Error: %v\n", err)
		}
		return 2
	}
	return a.exitCode(term)
}

func (a *App) dashboard() *dashboard.Controller {
	return dashboard.NewController(a.API, a.Store)
}

// exitCode turns what the controller did to the terminal into a status. Being
// sent to the login screen is a failure everywhere except logout.
func (a *App) exitCode(term *Terminal) int {
	if term.Navigated() == ui.RouteLogin {
		fmt.Fprintf(a.Err, "Not logged in. Run: %s login -email EMAIL -password PASSWORD\n", AppName)
		return 1
	}
	if term.Failed() {
		return 1
	}
	return 0
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

func (a *App) cmdLogin(ctx context.Context, term *Terminal, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "Operator email")
	password := fs.String("password", "", "Operator password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	creds := crmapi.Credentials{Email: *email, Password: *password}
	if err := ui.Validate(creds); err != nil {
		term.ShowError(err.Error())
		return nil
	}

	login.NewController(a.API, a.Store).Submit(ctx, term, creds)
	if term.Navigated() == ui.RouteDashboard {
		fmt.Fprintf(a.Out, "Logged in as %s\n", creds.Email)
	}
	return nil
}

func (a *App) cmdLogout(ctx context.Context, term *Terminal) int {
	a.dashboard().Logout(ctx, term)
	if term.Failed() {
		return 1
	}
	fmt.Fprintln(a.Out, "Logged out.")
	return 0
}

func (a *App) cmdStatus(ctx context.Context) int {
	token, err := a.Store.Token(ctx)
	if err != nil {
		fmt.Fprintf(a.Err, "Error: %v\n", err)
		return 1
	}
	if token == "" {
		fmt.Fprintln(a.Out, "Not logged in.")
		return 1
	}

	if email, ok := session.Email(token); ok {
		fmt.Fprintf(a.Out, "Logged in as %s\n", email)
	} else {
		fmt.Fprintln(a.Out, "Logged in.")
	}
	if a.StatePath != "" {
		fmt.Fprintf(a.Out, "Session:  %s\n", a.StatePath)
	}
	return 0
}

func (a *App) cmdAdd(ctx context.Context, term *Terminal, args []string) error {
	fs := a.flags("add")
	name := fs.String("name", "", "Customer name")
	email := fs.String("email", "", "Customer email")
	phone := fs.String("phone", "", "Customer phone")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d := a.dashboard()
	if !d.Guard(ctx, term) {
		return nil
	}

	d.NewCustomer(term)
	form := term.CustomerForm()
	form.Name, form.Email, form.Phone = *name, *email, *phone

	a.submitCustomer(ctx, d, term, *form)
	return nil
}

func (a *App) cmdEdit(ctx context.Context, term *Terminal, args []string) error {
	fs := a.flags("edit")
	id := fs.String("id", "", "Customer ID")
	name := fs.String("name", "", "New name (default: keep)")
	email := fs.String("email", "", "New email (default: keep)")
	phone := fs.String("phone", "", "New phone (default: keep)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("usage: %s edit -id ID [-name NAME] [-email EMAIL] [-phone PHONE]", AppName)
	}

	d := a.dashboard()
	if !d.Guard(ctx, term) {
		return nil
	}

	d.EditCustomer(ctx, term, model.ID(*id))
	form := term.CustomerForm()
	if form == nil {
		if !term.Failed() {
			term.Alert(fmt.Sprintf("Customer %s not found", *id))
		}
		return nil
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			form.Name = *name
		case "email":
			form.Email = *email
		case "phone":
			form.Phone = *phone
		}
	})

	a.submitCustomer(ctx, d, term, *form)
	return nil
}

func (a *App) submitCustomer(ctx context.Context, d *dashboard.Controller, term *Terminal, form dashboard.CustomerForm) {
	if err := ui.Validate(form.CustomerInput); err != nil {
		term.Alert(err.Error())
		return
	}
	d.SubmitCustomer(ctx, term, form)
}

func (a *App) cmdDelete(ctx context.Context, term *Terminal, args []string) error {
	fs := a.flags("delete")
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s delete [-yes] ID", AppName)
	}
	term.AssumeYes = *yes

	d := a.dashboard()
	if !d.Guard(ctx, term) {
		return nil
	}

	d.DeleteCustomer(ctx, term, model.ID(fs.Arg(0)))
	if term.Declined() {
		fmt.Fprintln(a.Err, "Aborted.")
	}
	return nil
}

func (a *App) cmdContact(ctx context.Context, term *Terminal, args []string) error {
	fs := a.flags("contact")
	customer := fs.String("customer", "", "Customer ID")
	message := fs.String("message", "", "Contact message")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d := a.dashboard()
	if !d.Guard(ctx, term) {
		return nil
	}

	d.AddContact(term, model.ID(*customer))
	in := term.ContactForm()
	in.Message = *message

	if err := ui.Validate(*in); err != nil {
		term.Alert(err.Error())
		return nil
	}
	d.SubmitContact(ctx, term, *in)
	return nil
}

func (a *App) printUsage() {
	fmt.Fprintf(a.Err, `Usage: %[1]s [-api URL] [-config FILE] <command> [flags]

Commands:
  login -email EMAIL -password PASSWORD   Log in and store the session token
  logout                                  Forget the session token
  status                                  Show whether a session is stored
  customers                               List customers
  add -name NAME -email EMAIL [-phone P]  Create a customer
  edit -id ID [-name N] [-email E] [-phone P]
                                          Update a customer (unset flags keep current values)
  delete [-yes] ID                        Delete a customer
  contacts                                List contacts
  contact -customer ID -message MESSAGE   Log a contact for a customer
`, AppName)
}
