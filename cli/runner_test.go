package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/mem"
	"github.com/viant/payroll"
	"github.com/viant/payroll/client/auth/mock"
	"github.com/viant/scy"
	"github.com/viant/scy/cred"
	_ "github.com/viant/scy/kms/blowfish"
)

func newBackend(t *testing.T) (*mock.Service, *httptest.Server) {
	service := mock.New("ann@example.com", "secret")
	service.Resources["/api/v1/departments/all"] = []string{"HR", "IT"}
	server := httptest.NewServer(&mock.Handler{Service: service})
	t.Cleanup(server.Close)
	return service, server
}

func TestRun(t *testing.T) {
	service, server := newBackend(t)
	storeURL := "mem://localhost/payroll/cli/session.json"
	ctx := context.Background()

	var testCases = []struct {
		description string
		before      func()
		command     string
		path        string
		email       string
		password    string
		expect      string
		expectErr   bool
	}{
		{description: "status before login", command: "status", expect: "not logged in\n"},
		{description: "get before login", command: "get", path: "/api/v1/departments/all", expectErr: true},
		{description: "login without password", command: "login", email: "ann@example.com", expectErr: true},
		{description: "login with wrong password", command: "login", email: "ann@example.com", password: "wrong", expectErr: true},
		{description: "login", command: "login", email: "ann@example.com", password: "secret", expect: "logged in as ann@example.com\n"},
		{description: "status after login", command: "status", expect: "logged in, access token valid until "},
		{description: "get", command: "get", path: "/api/v1/departments/all", expect: "[\n  \"HR\",\n  \"IT\"\n]\n"},
		{description: "get with expired token", before: service.Expire, command: "get", path: "/api/v1/departments/all", expect: "[\n  \"HR\",\n  \"IT\"\n]\n"},
		{description: "get without path", command: "get", expectErr: true},
		{description: "delete", command: "delete", path: "/api/v1/holiday/delete/1", expect: "DELETE /api/v1/holiday/delete/1\n"},
		{description: "logout", command: "logout", expect: "logged out\n"},
		{description: "status after logout", command: "status", expect: "not logged in\n"},
	}
	for _, testCase := range testCases {
		if testCase.before != nil {
			testCase.before()
		}
		options := &Options{
			ClientOptions: payroll.ClientOptions{BaseURL: server.URL, StoreURL: storeURL},
			Email:         testCase.email,
			Password:      testCase.password,
		}
		options.Args.Command = testCase.command
		options.Args.Path = testCase.path
		output := &bytes.Buffer{}
		err := run(ctx, options, output)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.True(t, strings.HasPrefix(output.String(), testCase.expect), testCase.description+": "+output.String())
	}
	assert.Equal(t, 1, service.Refreshes())
}

func TestRun_ConfigURL(t *testing.T) {
	_, server := newBackend(t)
	ctx := context.Background()
	configURL := "mem://localhost/payroll/cli/client.yaml"
	err := afs.New().Upload(ctx, configURL, 0o644, strings.NewReader("baseURL: "+server.URL+"\nstoreURL: mem://localhost/payroll/cli/config-session.json\n"))
	require.NoError(t, err)

	options := &Options{ConfigURL: configURL, Email: "ann@example.com", Password: "secret"}
	options.Args.Command = "login"
	output := &bytes.Buffer{}
	require.NoError(t, run(ctx, options, output))
	assert.Equal(t, "logged in as ann@example.com\n", output.String())
	assert.Equal(t, server.URL, options.BaseURL)

	options = &Options{ConfigURL: "mem://localhost/payroll/cli/missing.yaml"}
	options.Args.Command = "status"
	assert.Error(t, run(ctx, options, &bytes.Buffer{}))
}

func TestRun_LoginWithSecret(t *testing.T) {
	service, server := newBackend(t)
	ctx := context.Background()
	secretURL := "mem://localhost/payroll/cli/secret.json"
	resource := scy.NewResource(&cred.Basic{}, secretURL, "blowfish://default")
	err := scy.New().Store(ctx, scy.NewSecret(&cred.Basic{Username: "ann@example.com", Password: "secret"}, resource))
	require.NoError(t, err)

	options := &Options{
		ClientOptions: payroll.ClientOptions{BaseURL: server.URL, StoreURL: "mem://localhost/payroll/cli/secret-session.json"},
		Secret:        secretURL + "|blowfish://default",
	}
	options.Args.Command = "login"
	output := &bytes.Buffer{}
	require.NoError(t, run(ctx, options, output))
	assert.Equal(t, "logged in as ann@example.com\n", output.String())
	assert.Equal(t, 1, service.Logins())

	options.Secret = "mem://localhost/payroll/cli/missing-secret.json|blowfish://default"
	assert.Error(t, run(ctx, options, &bytes.Buffer{}))
}
