package payroll

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/viant/afs"
	"github.com/viant/payroll/client"
	"github.com/viant/payroll/client/auth/refresh"
	"github.com/viant/payroll/client/auth/store"
	"gopkg.in/yaml.v3"
)

// ClientOptions
//
// defines options for configuring a payroll client.
type ClientOptions struct {
	BaseURL        string        `yaml:"baseURL" json:"baseURL,omitempty"  short:"u" long:"url" description:"payroll backend URL" env:"PAYROLL_URL"`
	StoreURL       string        `yaml:"storeURL,omitempty" json:"storeURL,omitempty"  short:"s" long:"store" description:"session store URL, e.g. file:///home/ann/.payroll/session.json"`
	LoginPath      string        `yaml:"loginPath,omitempty" json:"loginPath,omitempty"  long:"login-path" description:"login endpoint path"`
	RefreshPath    string        `yaml:"refreshPath,omitempty" json:"refreshPath,omitempty"  long:"refresh-path" description:"token refresh endpoint path"`
	RefreshTimeout time.Duration `yaml:"refreshTimeout,omitempty" json:"refreshTimeout,omitempty"  long:"refresh-timeout" description:"token refresh timeout"`
	Timeout        time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"  short:"t" long:"timeout" description:"request timeout"`

	// Store, if set, takes precedence over StoreURL.
	Store store.Store `yaml:"-" json:"-"`
	// CookieJar, if set, is attached to the base transport.
	CookieJar http.CookieJar `yaml:"-" json:"-"`
	// OnSessionTerminated is called once per failed refresh.
	OnSessionTerminated refresh.Teardown `yaml:"-" json:"-"`
}

// Init applies defaults
func (o *ClientOptions) Init() {
	if o.LoginPath == "" {
		o.LoginPath = client.DefaultLoginPath
	}
	if o.RefreshPath == "" {
		o.RefreshPath = refresh.DefaultPath
	}
	if o.RefreshTimeout <= 0 {
		o.RefreshTimeout = refresh.DefaultTimeout
	}
	if o.Timeout <= 0 {
		o.Timeout = client.DefaultTimeout
	}
}

// Merge fills unset fields from defaults
func (o *ClientOptions) Merge(defaults *ClientOptions) {
	if defaults == nil {
		return
	}
	if o.BaseURL == "" {
		o.BaseURL = defaults.BaseURL
	}
	if o.StoreURL == "" {
		o.StoreURL = defaults.StoreURL
	}
	if o.LoginPath == "" {
		o.LoginPath = defaults.LoginPath
	}
	if o.RefreshPath == "" {
		o.RefreshPath = defaults.RefreshPath
	}
	if o.RefreshTimeout == 0 {
		o.RefreshTimeout = defaults.RefreshTimeout
	}
	if o.Timeout == 0 {
		o.Timeout = defaults.Timeout
	}
}

// Options converts ClientOptions into client options
func (o *ClientOptions) Options() []client.Option {
	result := []client.Option{
		client.WithLoginPath(o.LoginPath),
		client.WithRefreshPath(o.RefreshPath),
		client.WithRefreshTimeout(o.RefreshTimeout),
		client.WithTimeout(o.Timeout),
	}
	switch {
	case o.Store != nil:
		result = append(result, client.WithStore(o.Store))
	case o.StoreURL != "":
		result = append(result, client.WithStore(store.NewFileStore(o.StoreURL)))
	}
	if o.CookieJar != nil {
		result = append(result, client.WithCookieJar(o.CookieJar))
	}
	if o.OnSessionTerminated != nil {
		result = append(result, client.WithOnSessionTerminated(o.OnSessionTerminated))
	}
	return result
}

// LoadOptions loads YAML encoded options from URL
func LoadOptions(ctx context.Context, URL string) (*ClientOptions, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load options %v: %w", URL, err)
	}
	ret := &ClientOptions{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode options %v: %w", URL, err)
	}
	return ret, nil
}

// NewClient creates a payroll client configured via ClientOptions.
func NewClient(ctx context.Context, options *ClientOptions) (*client.Client, error) {
	if options == nil {
		return nil, fmt.Errorf("options were nil")
	}
	options.Init()
	if options.BaseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	return client.New(ctx, options.BaseURL, options.Options()...)
}
