// Package main is the interactive RentVerify shell.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/client/api"
	"github.com/atinyakov/RentVerify/internal/client/prompt"
	"github.com/atinyakov/RentVerify/internal/client/session"
	"github.com/atinyakov/RentVerify/internal/guard"
	"github.com/atinyakov/RentVerify/internal/logger"
	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/stepper"
)

var (
	version   string
	buildDate string
)

const helpText = `Commands:
  help                          show this help
  login <email>                 log in
  signup                        create an account
  logout                        end the session
  whoami                        show the current session
  listings [search]             search listings by text
  filter <min> <max> <beds> <baths>  search listings by numbers ("-" skips one)
  listing <id>                  show one listing
  profile                       show your profile
  profile-edit                  edit your profile
tenant:
  apply <listing-id>            fill in a verification request
  requests                      list your requests
  request <id>                  show one of your requests
  withdraw <id>                 delete one of your requests
  watch <id>                    report status changes of a request
landlord:
  queue [status]                list requests to review
  show <id>                     show a request
  review|approve <id>           change a request's status
  reject <id> [reason]          reject a request
  more-info <id> <message>      ask the tenant for more information
  exit`

type shell struct {
	client *api.Client
	in     *prompt.Prompter
	out    io.Writer
	ctx    context.Context
}

func main() {
	var (
		baseURL     string
		sessionFile string
		logLevel    string
		showVer     bool
	)
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&sessionFile, "session", session.DefaultFile, "path to the session file")
	flag.StringVar(&logLevel, "l", "warn", "log level")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("RentVerify Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	lg := logger.New()
	if err := lg.Init(logLevel); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Log.Sync() }()

	store := session.NewStore(sessionFile)
	if err := store.Load(); err != nil {
		lg.Log.Warn("ignoring unreadable session file", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := &shell{
		client: api.New(&http.Client{Timeout: 15 * time.Second}, baseURL, store, lg.Log),
		in:     prompt.New(os.Stdin, os.Stdout),
		out:    os.Stdout,
		ctx:    ctx,
	}
	sh.run()
}

func (s *shell) run() {
	for {
		line, err := s.in.Line("rentverify> ")
		if err != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.dispatch(args); err != nil {
			s.report(err)
		}
	}
}

func (s *shell) dispatch(args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "login":
		return s.login(rest)
	case "signup":
		return s.signup()
	case "logout":
		if err := s.client.Logout(s.ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out")
		return nil
	case "whoami":
		return s.whoami()
	case "listings":
		return s.listings(strings.Join(rest, " "), models.ListingFilters{})
	case "filter":
		return s.filter(rest)
	case "listing":
		return s.listing(rest)
	case "profile":
		return s.require("", cmd, s.profile)
	case "profile-edit":
		return s.require("", cmd, s.editProfile)
	case "apply":
		return s.require(models.RoleTenant, cmd, func() error { return s.apply(rest) })
	case "requests":
		return s.require(models.RoleTenant, cmd, s.myRequests)
	case "request":
		return s.require(models.RoleTenant, cmd, func() error { return s.myRequest(rest) })
	case "withdraw":
		return s.require(models.RoleTenant, cmd, func() error { return s.withdraw(rest) })
	case "watch":
		return s.require(models.RoleTenant, cmd, func() error { return s.watch(rest) })
	case "queue":
		return s.require(models.RoleLandlord, cmd, func() error { return s.queue(rest) })
	case "show":
		return s.require(models.RoleLandlord, cmd, func() error { return s.show(rest) })
	case api.ActReview, api.ActApprove, api.ActReject, api.ActMoreInfo:
		return s.require(models.RoleLandlord, cmd, func() error { return s.act(cmd, rest) })
	}
	fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	return nil
}

// require runs fn when the stored session may open a screen for role,
// otherwise it prints where the user is sent instead.
func (s *shell) require(role models.Role, cmd string, fn func() error) error {
	sess := s.client.Session()
	location := "/" + cmd
	if role != "" {
		location = "/" + string(role) + location
	}
	d := guard.Decide(sess.Token, sess.Role, role, location)
	switch d.Outcome {
	case guard.Render:
		return fn()
	case guard.RedirectLogin:
		fmt.Fprintf(s.out, "Please log in first (redirect to %s, then back to %s)\n", d.Location, d.From)
	case guard.RedirectDashboard:
		fmt.Fprintf(s.out, "%q is not available to a %s (redirect to %s)\n", cmd, sess.Role, d.Location)
	default:
		fmt.Fprintf(s.out, "Unknown role %q (redirect to %s)\n", sess.Role, d.Location)
	}
	return nil
}

func (s *shell) report(err error) {
	var apiErr *api.Error
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		fmt.Fprintln(s.out, "Your session has ended. Please log in again.")
	case errors.As(err, &apiErr) && len(apiErr.Fields) > 0:
		fmt.Fprintln(s.out, apiErr.Message+":")
		for k, v := range apiErr.Fields {
			fmt.Fprintf(s.out, "  %s: %s\n", k, v)
		}
	default:
		fmt.Fprintln(s.out, "Error:", err)
	}
}

func (s *shell) login(args []string) error {
	email := ""
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = s.in.Line("Email: "); err != nil {
			return err
		}
	}
	password, err := s.in.Line("Password: ")
	if err != nil {
		return err
	}
	u, err := s.client.Login(s.ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Welcome, %s. Dashboard: %s\n", u.Name, guard.Dashboard(u.Role))
	return nil
}

func (s *shell) signup() error {
	var in api.SignupInput
	fields := []struct {
		label string
		dst   *string
	}{
		{"Full name: ", &in.Name},
		{"Email: ", &in.Email},
		{"Phone: ", &in.Phone},
		{"Password: ", &in.Password},
		{"Confirm password: ", &in.ConfirmPassword},
	}
	for _, f := range fields {
		v, err := s.in.Line(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	role, err := s.in.Line("Role (tenant/landlord): ")
	if err != nil {
		return err
	}
	in.Role = models.Role(strings.ToLower(role))

	u, err := s.client.Signup(s.ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Account created for %s. Dashboard: %s\n", u.Email, guard.Dashboard(u.Role))
	return nil
}

func (s *shell) whoami() error {
	if s.client.Session().Token == "" {
		fmt.Fprintln(s.out, "Not logged in")
		return nil
	}
	sess, err := s.client.CurrentSession(s.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s)\n", sess.UserID, sess.Role)
	return nil
}

func (s *shell) listings(search string, f models.ListingFilters) error {
	ls, err := s.client.Listings(s.ctx, search, f)
	if err != nil {
		return err
	}
	if len(ls) == 0 {
		fmt.Fprintln(s.out, "No listings match.")
	}
	for _, l := range ls {
		fmt.Fprintf(s.out, "%-3s %-40s %8.0f/month  %dbd %dba  %s\n", l.ID, l.Title, l.Price, l.Bedrooms, l.Bathrooms, l.Address)
	}
	return nil
}

func (s *shell) filter(args []string) error {
	vals := make([]string, 4)
	for i := range vals {
		if i < len(args) && args[i] != "-" {
			vals[i] = args[i]
		}
	}
	return s.listings("", models.ListingFilters{MinPrice: vals[0], MaxPrice: vals[1], Bedrooms: vals[2], Bathrooms: vals[3]})
}

func (s *shell) listing(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: listing <id>")
		return nil
	}
	l, err := s.client.Listing(s.ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n%s\n%.0f/month, %d bedrooms, %d bathrooms, %d sq ft\n%s\nContact: %s %s\n",
		l.Title, l.Address, l.Price, l.Bedrooms, l.Bathrooms, l.Area, l.Description, l.LandlordName, l.LandlordPhone)
	return nil
}

func (s *shell) profile() error {
	u, err := s.client.Profile(s.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Name: %s\nEmail: %s\nPhone: %s\nRole: %s\nAddress: %s\nBio: %s\n", u.Name, u.Email, u.Phone, u.Role, u.Address, u.Bio)
	return nil
}

func (s *shell) editProfile() error {
	patch := map[string]string{}
	for _, f := range []struct{ key, label string }{
		{"name", "Name"}, {"email", "Email"}, {"phone", "Phone"}, {"address", "Address"}, {"bio", "Bio"},
	} {
		v, err := s.in.Line(f.label + " (blank to keep): ")
		if err != nil {
			return err
		}
		if v != "" {
			patch[f.key] = v
		}
	}
	if len(patch) == 0 {
		fmt.Fprintln(s.out, "Nothing changed")
		return nil
	}
	if _, err := s.client.UpdateProfile(s.ctx, patch); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Profile updated")
	return nil
}

func (s *shell) apply(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: apply <listing-id>")
		return nil
	}
	steps := stepper.TenantIntakeSteps()
	st, err := s.client.StartIntake(s.ctx, args[0], nil)
	if err != nil {
		return err
	}

	for {
		if st.Cursor == len(steps)-1 && st.Steps[st.Cursor].Complete {
			choice, err := s.in.Line("Submit, back or cancel? [submit]: ")
			if err != nil {
				return err
			}
			switch strings.ToLower(choice) {
			case "", "submit":
				req, err := s.client.SubmitIntake(s.ctx, st.ID)
				if err != nil {
					s.report(err)
					continue
				}
				fmt.Fprintf(s.out, "Request %s submitted for %s\n", req.ID, req.PropertyName)
				return nil
			case "back":
				if st, err = s.client.BackIntake(s.ctx, st.ID); err != nil {
					return err
				}
			case "cancel":
				return s.client.DiscardIntake(s.ctx, st.ID)
			}
			continue
		}

		fmt.Fprintf(s.out, "Step %d of %d\n", st.Cursor+1, len(steps))
		answers, err := s.in.Step(steps[st.Cursor], st.Draft)
		if err != nil {
			_ = s.client.DiscardIntake(s.ctx, st.ID)
			return err
		}
		next, err := s.client.NextIntake(s.ctx, st.ID, answers)
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity {
			s.report(err)
			continue
		}
		if err != nil {
			return err
		}
		st = next
	}
}

func (s *shell) myRequests() error {
	reqs, err := s.client.MyRequests(s.ctx)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Fprintln(s.out, "No requests yet.")
	}
	for _, r := range reqs {
		fmt.Fprintf(s.out, "%-12s %-22s %s\n", r.ID, r.Status.Label(), r.PropertyName)
	}
	return nil
}

func (s *shell) myRequest(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: request <id>")
		return nil
	}
	r, err := s.client.MyRequest(s.ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n%s\nStatus: %s\nMove-in: %s\nSubmitted: %s\n", r.PropertyName, r.Address, r.Status.Label(), r.MoveInDate, r.SubmittedAt.Format(time.DateOnly))
	for _, d := range r.Documents {
		fmt.Fprintf(s.out, "  document: %s %s\n", d.Name, d.URL)
	}
	if r.Notes != "" {
		fmt.Fprintf(s.out, "Notes:\n%s\n", r.Notes)
	}
	return nil
}

func (s *shell) withdraw(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: withdraw <id>")
		return nil
	}
	if err := s.client.DeleteRequest(s.ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Request deleted")
	return nil
}

func (s *shell) watch(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: watch <id>")
		return nil
	}
	s.client.WatchStatus(s.ctx, args[0], 10*time.Second, func(v models.TenantView) {
		fmt.Fprintf(s.out, "\nRequest %s is now %s\n", v.ID, v.Status.Label())
	})
	fmt.Fprintf(s.out, "Watching %s\n", args[0])
	return nil
}

func (s *shell) queue(args []string) error {
	status := ""
	if len(args) > 0 {
		status = args[0]
	}
	reqs, err := s.client.AllRequests(s.ctx, status)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Fprintln(s.out, "Queue is empty.")
	}
	for _, r := range reqs {
		fmt.Fprintf(s.out, "%-12s %-22s %-20s %s\n", r.ID, r.Status.Label(), r.TenantName, r.PropertyName)
	}
	return nil
}

func (s *shell) show(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: show <id>")
		return nil
	}
	r, err := s.client.Request(s.ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s)\nTenant: %s <%s> %s\nEmployment: %s, %s (%s), %.0f/month\nStatus: %s\n",
		r.PropertyName, r.Address, r.TenantName, r.TenantEmail, r.TenantPhone,
		r.Employment.JobTitle, r.Employment.EmployerName, r.Employment.EmploymentType, r.Employment.MonthlyIncome,
		r.Status.Label())
	for _, ref := range r.References {
		fmt.Fprintf(s.out, "  reference: %s %s %s\n", ref.Name, ref.Phone, ref.Email)
	}
	for _, d := range r.Documents {
		fmt.Fprintf(s.out, "  document: %s %s\n", d.Name, d.URL)
	}
	for _, h := range r.History {
		fmt.Fprintf(s.out, "  %s %s by %s %s\n", h.At.Format(time.DateTime), h.Action, h.Actor, h.Message)
	}
	if r.Notes != "" {
		fmt.Fprintf(s.out, "Notes:\n%s\n", r.Notes)
	}
	return nil
}

func (s *shell) act(action string, args []string) error {
	if len(args) < 1 {
		fmt.Fprintf(s.out, "Usage: %s <id>\n", action)
		return nil
	}
	text := strings.Join(args[1:], " ")
	if action == api.ActMoreInfo && text == "" {
		var err error
		if text, err = s.in.Line("What information is needed? "); err != nil {
			return err
		}
	}
	r, err := s.client.Act(s.ctx, args[0], action, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Request %s is now %s\n", r.ID, r.Status.Label())
	return nil
}
