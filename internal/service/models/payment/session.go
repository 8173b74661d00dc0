package payment

// Session is a hosted-checkout session created at the gateway. The token
// opens the embedded payment widget; the redirect URL is the hosted page.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}
