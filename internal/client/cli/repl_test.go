package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/google/go-cmp/cmp"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isAdmin() bool    { return f.admin }

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) Login(_ context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login", args)
}
func (f *fakeExec) Signup(_ context.Context, args []string) error { return f.record("signup", args) }
func (f *fakeExec) Forgot(_ context.Context, args []string) error { return f.record("forgot", args) }
func (f *fakeExec) Logout(_ context.Context, args []string) error {
	f.loggedIn = false
	return f.record("logout", args)
}
func (f *fakeExec) Profile(_ context.Context, args []string) error  { return f.record("profile", args) }
func (f *fakeExec) Products(_ context.Context, args []string) error { return f.record("products", args) }
func (f *fakeExec) Categories(_ context.Context, args []string) error {
	return f.record("categories", args)
}
func (f *fakeExec) Subscribe(_ context.Context, args []string) error {
	return f.record("subscribe", args)
}
func (f *fakeExec) Distributor(_ context.Context, args []string) error {
	return f.record("distributor", args)
}
func (f *fakeExec) Cart(_ context.Context, args []string) error   { return f.record("cart", args) }
func (f *fakeExec) Add(_ context.Context, args []string) error    { return f.record("add", args) }
func (f *fakeExec) Inc(_ context.Context, args []string) error    { return f.record("inc", args) }
func (f *fakeExec) Dec(_ context.Context, args []string) error    { return f.record("dec", args) }
func (f *fakeExec) Remove(_ context.Context, args []string) error { return f.record("remove", args) }
func (f *fakeExec) Coupon(_ context.Context, args []string) error { return f.record("coupon", args) }
func (f *fakeExec) Clear(_ context.Context, args []string) error  { return f.record("clear", args) }
func (f *fakeExec) Orders(_ context.Context, args []string) error { return f.record("orders", args) }
func (f *fakeExec) OrderStatus(_ context.Context, args []string) error {
	return f.record("order-status", args)
}
func (f *fakeExec) DeleteOrder(_ context.Context, args []string) error {
	return f.record("delete-order", args)
}
func (f *fakeExec) Invoice(_ context.Context, args []string) error { return f.record("invoice", args) }
func (f *fakeExec) Export(_ context.Context, args []string) error  { return f.record("export", args) }

// capturePrint swaps printlnFn for a recorder.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesWithArgs(t *testing.T) {
	capturePrint(t)

	input := strings.NewReader(strings.Join([]string{
		"login a@b.com",
		"",
		"add p1 2 250g",
		"+ p1",
		"dec p1",
		"rm p1",
		"coupon SPICE10",
		"orders status=shipped page=2",
		"invoice o1",
		"logout",
		"exit",
		"cart",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	wantCalls := []string{"login", "add", "inc", "dec", "remove", "coupon", "orders", "invoice", "logout"}
	if diff := cmp.Diff(wantCalls, exec.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"p1", "2", "250g"}, exec.args[1]); diff != "" {
		t.Fatalf("add args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"status=shipped", "page=2"}, exec.args[6]); diff != "" {
		t.Fatalf("orders args mismatch (-want +got):\n%s", diff)
	}
}

func TestRunREPL_HelpDependsOnRole(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExec
		want []string
	}{
		{name: "guest", exec: &fakeExec{}, want: []string{helpGuest}},
		{name: "user", exec: &fakeExec{loggedIn: true}, want: []string{helpUser}},
		{name: "admin", exec: &fakeExec{loggedIn: true, admin: true}, want: []string{helpUser, helpAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := capturePrint(t)
			runREPL(context.Background(), tt.exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("help\n")))

			var got []string
			for _, l := range *lines {
				if strings.HasPrefix(l, "spice") {
					continue
				}
				got = append(got, l)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("help mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunREPL_ReportsErrorsAndUnknown(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{err: common.ErrNoSession}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("cart\nfoobar\nquit\n")))

	out := strings.Join(*lines, "\n")
	for _, want := range []string{"Error: please log in first", "Unknown command: foobar", "Bye!", "spice s > "} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q does not contain %q", out, want)
		}
	}
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrint(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("cart\n")))
	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
