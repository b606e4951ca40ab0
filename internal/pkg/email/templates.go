package email

// BaseTemplate is the layout every email is wrapped in
const BaseTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { margin: 0; padding: 0; font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; background: #f4f1ea; color: #2d3a2e; }
.container { max-width: 600px; margin: 0 auto; padding: 32px 16px; }
.card { background: #ffffff; border-radius: 12px; padding: 28px; }
h2 { margin: 0 0 16px; font-size: 22px; }
p { font-size: 15px; line-height: 1.6; margin: 0 0 12px; }
table.summary td { padding: 4px 12px 4px 0; }
.footer { text-align: center; font-size: 12px; color: #7c8a7d; margin-top: 20px; }
</style>
</head>
<body>
<div class="container">
<div class="card">{{.Content}}</div>
<div class="footer">Campy · camping in Thailand</div>
</div>
</body>
</html>`

// WelcomeTemplate is sent after registration
const WelcomeTemplate = `<h2>Welcome to Campy, {{.Name}}!</h2>
<p>Your account is ready. Find a campsite and book your next night under the stars.</p>`

// BookingConfirmedTemplate is sent when the host confirms a booking
const BookingConfirmedTemplate = `<h2>Your booking is confirmed</h2>
<p>Hi {{.Name}}, {{.CampName}} has confirmed your stay.</p>
<table class="summary">
<tr><td>Check-in</td><td>{{.CheckIn}}</td></tr>
<tr><td>Check-out</td><td>{{.CheckOut}}</td></tr>
<tr><td>Nights</td><td>{{.Nights}}</td></tr>
<tr><td>Total</td><td>{{.Total}}</td></tr>
</table>`

// BookingCancelledTemplate is sent when a booking is cancelled or expires
const BookingCancelledTemplate = `<h2>Booking cancelled</h2>
<p>Hi {{.Name}}, your booking at {{.CampName}} for {{.CheckIn}} has been cancelled.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}`

// PaymentRejectedTemplate is sent when a host rejects a payment slip
const PaymentRejectedTemplate = `<h2>Payment needs attention</h2>
<p>Hi {{.Name}}, the payment slip for your booking at {{.CampName}} was not accepted.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Please upload a new slip from your booking page.</p>`
