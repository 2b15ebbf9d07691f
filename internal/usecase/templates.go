package usecase

import (
	"fmt"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
)

// TemplateName identifies one of the fixed transactional templates.
type TemplateName string

const (
	TemplateEarlyAccessWelcome  TemplateName = "earlyAccessWelcome"
	TemplatePaidUserWelcome     TemplateName = "paidUserWelcome"
	TemplateEarlyAccessFollowUp TemplateName = "earlyAccessFollowUp"
	TemplateOnboardingReminder  TemplateName = "onboardingReminder"
)

type EmailTemplate struct {
	Subject string
	Body    string
}

// emailTemplates is the full registry. Copy is owned by marketing; keep the
// wording in sync with them, not with code review taste.
var emailTemplates = map[TemplateName]EmailTemplate{
	TemplateEarlyAccessWelcome: {
		Subject: "Welcome to Deal Crafter AI - You're on the Early Access List! 🚀",
		Body: `Hi there!

Thank you for joining the Deal Crafter AI early access list! We're incredibly grateful that you've chosen us to help transform your sales process.

Here's why this will be one of the best decisions you've made for your business:

🎯 **Early Access Benefits:**
• Guaranteed $20/month pricing forever
• Priority access when we launch
• Exclusive onboarding support
• Early feature access

📈 **What Deal Crafter AI Does:**
• Sends up to 5,000 personalized emails per day
• Generates emails that get 3x higher reply rates
• Automates your entire sales process
• Tracks everything in real-time

💡 **Why This Will Pay Off:**
Most founders spend $80k+ annually on sales teams that barely hit quota. Deal Crafter AI replaces that entire cost with AI that actually closes deals. You'll see ROI within your first month.

🔒 **30-Day Money-Back Guarantee:**
We're so confident you'll love the results that we offer a full 30-day money-back guarantee. No questions asked.

We're currently in final testing and will be launching soon. You'll be the first to know when we're ready!

In the meantime, check out our demo to see how it works.

Best regards,
The Deal Crafter AI Team

P.S. Have questions? Just reply to this email - we'd love to hear from you!`,
	},

	TemplatePaidUserWelcome: {
		Subject: "Welcome to Deal Crafter AI - Let's Get You Started! 🎉",
		Body: `Hi there!

Welcome to Deal Crafter AI! We're incredibly grateful that you've chosen us to help transform your sales process. You're now part of an exclusive group of founders who are replacing expensive sales teams with AI that actually closes deals.

Here's why this investment will pay off big time:

🚀 **What You Get:**
• Send up to 5,000 personalized emails per day
• AI-generated personalized messages
• Real-time analytics and optimization
• Automated follow-ups and scheduling

💡 **Why This Will Pay Off:**
Most founders spend $80k+ annually on sales teams that barely hit quota. Deal Crafter AI replaces that entire cost with AI that actually closes deals. You'll see ROI within your first month.

🔒 **30-Day Money-Back Guarantee:**
We're so confident you'll love the results that we offer a full 30-day money-back guarantee. No questions asked.

📞 **Need Help?**
We're here to support you every step of the way. Just reply to this email or schedule a quick onboarding call.

Your success is our success!

Best regards,
The Deal Crafter AI Team

P.S. We'll notify you as soon as the full platform is ready!`,
	},

	TemplateEarlyAccessFollowUp: {
		Subject: "Deal Crafter AI Update - Launching Soon! ⚡",
		Body: `Hi there!

Great news! Deal Crafter AI is launching soon, and you're guaranteed early access pricing.

🔥 **Launch Details:**
• Launch Date: Coming Soon
• Your Price: $20/month forever
• Early Access Benefits: Priority support and exclusive features

💡 **What Our Early Users Are Saying:**
"Deal Crafter AI helped us close 3x more deals in our first month. We went from 2 sales to 6 deals worth $45k."

🚀 **Ready to Get Started?**
When we launch, you'll get:
• Instant access to send up to 5,000 emails per day
• Personalized email generation
• Real-time analytics dashboard
• Priority support

💡 **Why This Will Pay Off:**
Most founders spend $80k+ annually on sales teams that barely hit quota. Deal Crafter AI replaces that entire cost with AI that actually closes deals. You'll see ROI within your first month.

🔒 **30-Day Money-Back Guarantee:**
We're so confident you'll love the results that we offer a full 30-day money-back guarantee. No questions asked.

We'll send you your login credentials as soon as we go live!

Best regards,
The Deal Crafter AI Team

P.S. Questions about the launch? Just reply to this email!`,
	},

	TemplateOnboardingReminder: {
		Subject: "Your Deal Crafter AI Account is Ready - Let's Get You Started! 🎯",
		Body: `Hi there!

Your Deal Crafter AI account is ready and waiting for you! We noticed you haven't logged in yet, and we want to make sure you get the most out of your investment.

We're incredibly grateful that you've chosen us, and we want to help you see results fast.

🎯 **What You're Missing:**
• Up to 5,000 personalized emails per day
• AI-generated personalized emails
• Real-time analytics and optimization
• Potential meetings and deals

💡 **Why This Will Pay Off:**
Most founders spend $80k+ annually on sales teams that barely hit quota. Deal Crafter AI replaces that entire cost with AI that actually closes deals. You'll see ROI within your first month.

🔒 **30-Day Money-Back Guarantee:**
We're so confident you'll love the results that we offer a full 30-day money-back guarantee. No questions asked.

💡 **Need Help?**
We offer free onboarding calls to get you set up and seeing results fast. Just reply to this email to schedule yours.

Your success is our priority!

Best regards,
The Deal Crafter AI Team

P.S. Most users see their first results within 24 hours of setup.`,
	},
}

// Template looks the named template up. An unknown name is a programmer
// error, not a runtime condition.
func Template(name TemplateName) EmailTemplate {
	t, ok := emailTemplates[name]
	if !ok {
		panic(fmt.Sprintf("unknown email template %q", name))
	}
	return t
}

// WelcomeTemplateFor picks the welcome variant by lead status at send time.
func WelcomeTemplateFor(status entity.Status) TemplateName {
	if status == entity.StatusPaid {
		return TemplatePaidUserWelcome
	}
	return TemplateEarlyAccessWelcome
}
