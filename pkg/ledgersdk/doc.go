/*
Package ledgersdk is a Go client for the ledger service.

# Client vs Session

  - Client: public endpoints (health, register, login)
  - Session: everything that needs a bearer token

Create a Client and log in to get a Session:

	client := ledgersdk.NewClient("http://localhost:6001")

	session, err := client.Login(ctx, "jane@example.com", "secret1")
	if err != nil {
		return err
	}

	txs, err := session.ListTransactions(ctx, ledgersdk.TransactionQuery{Type: "INCOME"})

# Errors

Every non-2xx response is returned as an *APIError carrying the status code
and the server's message:

	_, err := session.CreateTransaction(ctx, req)
	if ledgersdk.IsForbidden(err) {
		// READ-only account
	}

Validation failures carry per-field messages in APIError.Details. Failed role
or permission checks carry Required and Current.

Sessions are not refreshed. After the token expires, log in again.
*/
package ledgersdk
