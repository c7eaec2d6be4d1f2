//go:build linux

package shell

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/macshift/macshift/internal/domain"
)

// fakeRunner returns canned output keyed by the joined command line and
// records every invocation.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmd)
	if err, ok := f.errs[cmd]; ok {
		return "", err
	}
	return f.outputs[cmd], nil
}

func TestListInterfacesPrefersIPLink(t *testing.T) {
	fr := &fakeRunner{outputs: map[string]string{
		"ip link show": ipLinkOutput,
	}}
	c := NewControllerWithRunner(fr)
	ifaces, err := c.ListInterfaces(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ifaces["eth0"] != "52:54:00:12:34:56" {
		t.Errorf("eth0: got %s", ifaces["eth0"])
	}
	for _, call := range fr.calls {
		if strings.HasPrefix(call, "ifconfig") {
			t.Errorf("ifconfig fallback should not run: %v", fr.calls)
		}
	}
}

func TestListInterfacesFallsBackToIfconfig(t *testing.T) {
	fr := &fakeRunner{
		outputs: map[string]string{"ifconfig": legacyIfconfigOutput},
		errs:    map[string]error{"ip link show": errors.New("ip: not found")},
	}
	c := NewControllerWithRunner(fr)
	ifaces, err := c.ListInterfaces(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ifaces["eth0"] != "00:0C:29:3E:6F:AA" {
		t.Errorf("eth0: got %s", ifaces["eth0"])
	}
}

func TestSetAddressRunsIPSequence(t *testing.T) {
	fr := &fakeRunner{}
	c := NewControllerWithRunner(fr)
	if err := c.SetAddress(context.Background(), "eth0", "02:11:22:33:44:55"); err != nil {
		t.Fatalf("set: %v", err)
	}
	want := []string{
		"ip link set dev eth0 down",
		"ip link set dev eth0 address 02:11:22:33:44:55",
		"ip link set dev eth0 up",
	}
	if len(fr.calls) != len(want) {
		t.Fatalf("calls: %v", fr.calls)
	}
	for i, w := range want {
		if fr.calls[i] != w {
			t.Errorf("call %d: want %q, got %q", i, w, fr.calls[i])
		}
	}
}

func TestSetAddressFallsBackToIfconfig(t *testing.T) {
	fr := &fakeRunner{errs: map[string]error{
		"ip link set dev eth0 down": errors.New("ip: not found"),
	}}
	c := NewControllerWithRunner(fr)
	if err := c.SetAddress(context.Background(), "eth0", "02:11:22:33:44:55"); err != nil {
		t.Fatalf("set: %v", err)
	}
	last := fr.calls[len(fr.calls)-1]
	if last != "ifconfig eth0 up" {
		t.Errorf("fallback sequence not run, calls: %v", fr.calls)
	}
}

func TestSetAddressRejectsInvalidMac(t *testing.T) {
	fr := &fakeRunner{}
	c := NewControllerWithRunner(fr)
	err := c.SetAddress(context.Background(), "eth0", "not-a-mac")
	if err == nil {
		t.Fatal("want validation error")
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("want *domain.ValidationError, got %T", err)
	}
	if len(fr.calls) != 0 {
		t.Errorf("no commands should run for invalid input: %v", fr.calls)
	}
}

func TestSetAddressWrapsControllerError(t *testing.T) {
	cause := errors.New("RTNETLINK answers: operation not permitted")
	fr := &fakeRunner{errs: map[string]error{
		"ip link set dev eth0 down": cause,
		"ifconfig eth0 down":        cause,
	}}
	c := NewControllerWithRunner(fr)
	err := c.SetAddress(context.Background(), "eth0", "02:11:22:33:44:55")
	var cerr *domain.ControllerError
	if !errors.As(err, &cerr) {
		t.Fatalf("want *domain.ControllerError, got %T: %v", err, err)
	}
	if cerr.Op != "set" || cerr.Interface != "eth0" {
		t.Errorf("wrapped fields: %+v", cerr)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not preserved through Unwrap")
	}
}

func TestRestoreAddressBouncesInterface(t *testing.T) {
	fr := &fakeRunner{}
	c := NewControllerWithRunner(fr)
	if err := c.RestoreAddress(context.Background(), "eth0"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	want := []string{
		"ip link set dev eth0 down",
		"ip link set dev eth0 up",
	}
	if len(fr.calls) != len(want) {
		t.Fatalf("calls: %v", fr.calls)
	}
	for i, w := range want {
		if fr.calls[i] != w {
			t.Errorf("call %d: want %q, got %q", i, w, fr.calls[i])
		}
	}
}

func TestRestoreAddressFallsBackToIfconfig(t *testing.T) {
	fr := &fakeRunner{errs: map[string]error{
		"ip link set dev eth0 down": errors.New("ip: not found"),
	}}
	c := NewControllerWithRunner(fr)
	if err := c.RestoreAddress(context.Background(), "eth0"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	last := fr.calls[len(fr.calls)-1]
	if last != "ifconfig eth0 up" {
		t.Errorf("fallback sequence not run, calls: %v", fr.calls)
	}
}

func TestRestoreAddressWrapsControllerError(t *testing.T) {
	cause := errors.New("RTNETLINK answers: operation not permitted")
	fr := &fakeRunner{errs: map[string]error{
		"ip link set dev eth0 down": cause,
		"ifconfig eth0 down":        cause,
	}}
	c := NewControllerWithRunner(fr)
	err := c.RestoreAddress(context.Background(), "eth0")
	var cerr *domain.ControllerError
	if !errors.As(err, &cerr) {
		t.Fatalf("want *domain.ControllerError, got %T: %v", err, err)
	}
	if cerr.Op != "restore" || cerr.Interface != "eth0" {
		t.Errorf("wrapped fields: %+v", cerr)
	}
}

func TestCurrentAddressUnknownInterface(t *testing.T) {
	fr := &fakeRunner{outputs: map[string]string{"ip link show": ipLinkOutput}}
	c := NewControllerWithRunner(fr)
	_, err := c.CurrentAddress(context.Background(), "tun9")
	if !errors.Is(err, domain.ErrInterfaceNotFound) {
		t.Errorf("want ErrInterfaceNotFound, got %v", err)
	}
}
