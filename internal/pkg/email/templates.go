package email

// Email templates in HTML format

// BaseTemplate is the base layout for all emails
const BaseTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: #f4f6f8;
            color: #1c2733;
        }
        .container {
            max-width: 600px;
            margin: 0 auto;
            padding: 40px 20px;
        }
        .card {
            background: #ffffff;
            border-radius: 12px;
            padding: 32px;
            border: 1px solid #e3e8ee;
        }
        .logo {
            text-align: center;
            margin-bottom: 24px;
        }
        .logo h1 {
            font-size: 28px;
            color: #0b72e7;
            margin: 0;
        }
        h2 {
            color: #1c2733;
            font-size: 24px;
            margin: 0 0 16px;
        }
        p {
            color: #55616e;
            font-size: 16px;
            line-height: 1.6;
            margin: 0 0 16px;
        }
        .btn {
            display: inline-block;
            background: #0b72e7;
            color: #ffffff !important;
            text-decoration: none;
            padding: 14px 28px;
            border-radius: 8px;
            font-weight: 600;
            font-size: 16px;
            margin: 16px 0;
        }
        .footer {
            text-align: center;
            margin-top: 32px;
            color: #8a949e;
            font-size: 12px;
        }
        .highlight {
            color: #0b72e7;
            font-weight: 600;
        }
        .info-box {
            background: #f0f4f8;
            border-radius: 8px;
            padding: 16px;
            margin: 16px 0;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <div class="logo">
                <h1>Bidblab</h1>
            </div>
            {{.Content}}
        </div>
        <div class="footer">
            <p>© 2026 Bidblab. All rights reserved.</p>
            <p>You received this email because of activity on bidblab.com</p>
        </div>
    </div>
</body>
</html>
`

// WelcomeTemplate - welcome email for new users
const WelcomeTemplate = `
<h2>Welcome to Bidblab!</h2>
<p>Hi <span class="highlight">{{.UserName}}</span>,</p>
<p>Your account is ready. You start with <strong>{{.SignupCredit}} credits</strong> on the house.</p>
<p>Ways to earn more:</p>
<ul>
    <li>Ask questions</li>
    <li>Answer other members' questions</li>
    <li>Invite friends</li>
</ul>
<p>Spend your credits on auction bid fees. The highest unique bid wins.</p>
<a href="{{.DashboardURL}}" class="btn">Go to Bidblab</a>
`

// InviteTemplate - referral invitation to a friend
const InviteTemplate = `
<h2>{{.InviterName}} invited you to Bidblab</h2>
<p><span class="highlight">{{.InviterName}}</span> thinks you'd enjoy Bidblab, where answering
questions earns credits you can spend bidding on auctions.</p>
<div class="info-box">
    <p>Sign up with this email address and you both earn referral credits.</p>
</div>
<a href="{{.SignupURL}}" class="btn">Join Bidblab</a>
<p style="color: #8a949e;">If you don't know {{.InviterName}}, you can ignore this email.</p>
`

// InviteConvertedTemplate - tells the inviter their referral paid out
const InviteConvertedTemplate = `
<h2>Your invite paid off</h2>
<p>Hi <span class="highlight">{{.InviterName}}</span>,</p>
<p><strong>{{.FriendEmail}}</strong> just joined Bidblab through your invite.</p>
<div class="info-box">
    <p>Referral credits earned: <strong>{{.ReferralCredit}}</strong></p>
</div>
<a href="{{.DashboardURL}}" class="btn">Check your balance</a>
`

// AuctionWonTemplate - notification for the holder of the winning bid
const AuctionWonTemplate = `
<h2>You won the auction!</h2>
<p>Hi <span class="highlight">{{.UserName}}</span>,</p>
<p>Your bid of <strong>{{.BidPrice}}</strong> was the highest unique bid on
<strong>{{.AuctionTitle}}</strong>.</p>
<a href="{{.AuctionURL}}" class="btn">View auction</a>
`

// MessageReceivedTemplate - notification about a new site message
const MessageReceivedTemplate = `
<h2>New message</h2>
<p>You have a new message from <span class="highlight">{{.SenderName}}</span>:</p>
<div class="info-box">
    <p>"{{.Preview}}"</p>
</div>
<a href="{{.InboxURL}}" class="btn">Open inbox</a>
`
