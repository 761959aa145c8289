// Package payroll wires the payroll REST client from declarative options.
//
// ClientOptions can be populated from command line flags, JSON or a YAML file
// located at any afs URL:
//
//	options, err := payroll.LoadOptions(ctx, "file:///etc/payroll/client.yaml")
//	if err != nil {
//		return err
//	}
//	aClient, err := payroll.NewClient(ctx, options)
//
// The returned client persists its session in options.StoreURL when set.
package payroll
