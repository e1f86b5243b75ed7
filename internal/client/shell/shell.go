// Package shell is the interactive admin console. Every page of the admin
// site is a view reached with "go <path>"; navigation passes through the
// route guard so logged-out users always land on /login.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/client/auth"
	"github.com/atinyakov/siteadmin/internal/client/content"
	"github.com/atinyakov/siteadmin/internal/client/crud"
	"github.com/atinyakov/siteadmin/internal/client/dashboard"
	"github.com/atinyakov/siteadmin/internal/client/guard"
	"github.com/atinyakov/siteadmin/internal/client/upload"
	"github.com/atinyakov/siteadmin/internal/logger"
)

// Routes are the protected views.
var Routes = []string{
	guard.HomePath,
	"/services",
	"/blogs",
	"/testimonials",
	"/faq",
	"/upload",
	"/createadmin",
	"/headersettings",
	"/portfolio",
}

const helpText = `Commands:
  help                      show this help
  login <email>             log in (asks for the password)
  logout                    end the session
  go <path>                 open a page: / /services /blogs /testimonials /faq
                            /portfolio /headersettings /upload /createadmin
  list                      show the records of the current page
  reload                    fetch the records again
  new                       start a new record (on /createadmin: add an admin)
  edit <id>                 load a record into the form
  set <field> <value...>    change a form field ("\n" starts a new line)
  image <file>              upload an image into the form's image field
  save                      create or update the record in the form
  delete <id>               delete a record
  upload <file>             upload an image and print its URL
  exit                      leave the shell`

// Session is the token store the shell reads and watches.
type Session interface {
	guard.Session
	auth.Session
	Subscribe(fn func(token string)) func()
}

// Options configure a Shell.
type Options struct {
	Client  crud.Requester
	Session Session
	In      io.Reader
	Out     io.Writer
	Log     *zap.Logger
}

// Shell runs the read-eval-print loop.
type Shell struct {
	client   crud.Requester
	session  Session
	guard    *guard.Guard
	auth     *auth.Service
	uploader *upload.Uploader
	screens  map[string]crud.Screen
	prompt   *Prompter
	out      io.Writer
	log      *zap.Logger

	unsubscribe func()

	mu   sync.Mutex
	view string
}

// New builds a Shell.
func New(opts Options) *Shell {
	log := logger.OrNop(opts.Log)
	s := &Shell{
		client:   opts.Client,
		session:  opts.Session,
		guard:    guard.New(opts.Session, Routes...),
		auth:     auth.New(opts.Client, opts.Session, log),
		uploader: upload.New(opts.Client, log),
		screens:  content.Screens(opts.Client, log),
		prompt:   NewPrompter(opts.In, opts.Out),
		out:      opts.Out,
		log:      log,
	}
	s.unsubscribe = opts.Session.Subscribe(func(token string) {
		if token == "" {
			s.setView(guard.LoginPath)
			fmt.Fprintln(s.out, "Logged out.")
		}
	})
	return s
}

// Close stops watching the session.
func (s *Shell) Close() {
	s.unsubscribe()
}

// View returns the current page path.
func (s *Shell) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Shell) setView(p string) {
	s.mu.Lock()
	s.view = p
	s.mu.Unlock()
}

// Run opens the home page and processes commands until exit or EOF.
func (s *Shell) Run(ctx context.Context) error {
	s.Navigate(ctx, guard.HomePath)
	for {
		line, ok := s.prompt.Line(fmt.Sprintf("siteadmin:%s> ", s.View()))
		if !ok {
			return nil
		}
		if s.Exec(ctx, line) {
			return nil
		}
	}
}

// Navigate resolves p through the guard and renders the resulting view.
func (s *Shell) Navigate(ctx context.Context, p string) {
	d := s.guard.Resolve(p)
	target := d.View
	if d.Redirected() {
		target = d.Redirect
		fmt.Fprintf(s.out, "Redirected to %s\n", target)
	}
	s.setView(target)
	s.render(ctx, target)
}

func (s *Shell) render(ctx context.Context, view string) {
	switch view {
	case guard.LoginPath:
		fmt.Fprintln(s.out, "Please log in: login <email>")
	case guard.HomePath:
		stats, err := dashboard.Fetch(ctx, s.client)
		if err != nil {
			fmt.Fprintln(s.out, "Failed to load dashboard")
			return
		}
		fmt.Fprintln(s.out, stats)
	case "/upload":
		fmt.Fprintln(s.out, "Upload an image: upload <file>")
	case "/createadmin":
		fmt.Fprintln(s.out, "Create an admin: new")
	default:
		if sc, ok := s.screens[view]; ok {
			_ = sc.Load(ctx)
			s.printScreen(sc)
		}
	}
}

// Exec runs one command line and reports whether the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "exit", "quit":
		fmt.Fprintln(s.out, "Bye")
		return true
	case "go":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: go <path>")
			return false
		}
		s.Navigate(ctx, args[1])
	case "login":
		s.login(ctx, args[1:])
	case "logout":
		if err := s.auth.Logout(); err != nil {
			fmt.Fprintf(s.out, "Logout failed: %v\n", err)
		}
	case "upload":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: upload <file>")
			return false
		}
		s.upload(ctx, args[1])
	case "new":
		if s.View() == "/createadmin" {
			s.createAdmin(ctx)
			return false
		}
		s.withScreen(func(sc crud.Screen) {
			sc.StartCreate()
			s.printForm(sc)
		})
	case "list":
		s.withScreen(s.printList)
	case "reload":
		s.withScreen(func(sc crud.Screen) {
			_ = sc.Load(ctx)
			s.printScreen(sc)
		})
	case "edit":
		s.withArg(args, "Usage: edit <id>", func(sc crud.Screen, id string) {
			if err := sc.StartEditID(id); err != nil {
				fmt.Fprintln(s.out, err)
				return
			}
			s.printForm(sc)
		})
	case "set":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: set <field> <value...>")
			return false
		}
		value := strings.ReplaceAll(restOf(line, 2), `\n`, "\n")
		s.withScreen(func(sc crud.Screen) {
			if err := sc.SetField(args[1], value); err != nil {
				fmt.Fprintf(s.out, "Unknown field %q\n", args[1])
			}
		})
	case "image":
		s.withArg(args, "Usage: image <file>", func(sc crud.Screen, path string) {
			_, _ = s.uploader.Attach(ctx, sc, path)
			fmt.Fprintln(s.out, sc.Message())
		})
	case "save":
		s.withScreen(func(sc crud.Screen) {
			_ = sc.Submit(ctx)
			fmt.Fprintln(s.out, sc.Message())
			s.printList(sc)
		})
	case "delete":
		s.withArg(args, "Usage: delete <id>", func(sc crud.Screen, id string) {
			err := sc.Remove(ctx, id, s.prompt)
			if errors.Is(err, crud.ErrNotConfirmed) {
				fmt.Fprintln(s.out, "Cancelled")
				return
			}
			fmt.Fprintln(s.out, sc.Message())
			s.printList(sc)
		})
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return false
}

func (s *Shell) login(ctx context.Context, args []string) {
	if s.session.Authenticated() {
		fmt.Fprintln(s.out, "Already logged in")
		return
	}
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		email = s.prompt.Ask("Email")
	}
	password := s.prompt.Secret("Password")

	msg, err := s.auth.Login(ctx, email, password)
	fmt.Fprintln(s.out, msg)
	if err != nil {
		return
	}
	s.Navigate(ctx, guard.HomePath)
}

func (s *Shell) createAdmin(ctx context.Context) {
	a := auth.Admin{
		Name:     s.prompt.Ask("Name"),
		Email:    s.prompt.Ask("Email"),
		Password: s.prompt.Secret("Password"),
	}
	msg, _ := s.auth.CreateAdmin(ctx, a)
	fmt.Fprintln(s.out, msg)
}

func (s *Shell) upload(ctx context.Context, path string) {
	url, err := s.uploader.UploadFile(ctx, path)
	if err != nil {
		fmt.Fprintf(s.out, "Upload failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Uploaded: %s\n", url)
}

func (s *Shell) withScreen(fn func(sc crud.Screen)) {
	sc, ok := s.screens[s.View()]
	if !ok {
		fmt.Fprintln(s.out, "No form on this page")
		return
	}
	fn(sc)
}

func (s *Shell) withArg(args []string, usage string, fn func(sc crud.Screen, arg string)) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, usage)
		return
	}
	s.withScreen(func(sc crud.Screen) { fn(sc, args[1]) })
}

func (s *Shell) printScreen(sc crud.Screen) {
	if msg := sc.Message(); msg != "" {
		fmt.Fprintln(s.out, msg)
	}
	s.printList(sc)
	s.printForm(sc)
}

func (s *Shell) printList(sc crud.Screen) {
	lines := sc.Lines()
	if len(lines) == 0 {
		fmt.Fprintf(s.out, "No %s yet\n", sc.Name())
		return
	}
	for _, l := range lines {
		fmt.Fprintln(s.out, l)
	}
}

func (s *Shell) printForm(sc crud.Screen) {
	draft := sc.Draft()
	if id := sc.Editing(); id != "" {
		fmt.Fprintf(s.out, "Editing %s\n", id)
	}
	for _, f := range sc.Fields() {
		mark := ""
		if f.Required {
			mark = "*"
		}
		fmt.Fprintf(s.out, "  %s%s [%s]: %s\n", f.Label, mark, f.Name, strings.ReplaceAll(draft[f.Name], "\n", `\n`))
	}
}

// restOf returns line with its first n fields removed, keeping inner spacing.
func restOf(line string, n int) string {
	rest := strings.TrimSpace(line)
	for i := 0; i < n; i++ {
		idx := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' })
		if idx < 0 {
			return ""
		}
		rest = strings.TrimLeft(rest[idx:], " \t")
	}
	return rest
}

