// Package cli implements the payroll command line client.
//
// Usage:
//
//	payroll -u http://localhost:8080 -s file://$HOME/.payroll/session.json -e ann@example.com -p secret login
//	payroll -c file://$HOME/.payroll/client.yaml -S 'file://$HOME/.secret/payroll.json|blowfish://default' login
//	payroll -c file://$HOME/.payroll/client.yaml get /api/v1/departments/all
//	payroll -c file://$HOME/.payroll/client.yaml status
//	payroll -c file://$HOME/.payroll/client.yaml logout
package cli
