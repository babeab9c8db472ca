package notify

import "fmt"

const (
	subjectConfirmation = "Booking Confirmed - Upperroom Prayer Meeting"
	subjectReminder     = "Reminder: Your slot is in 4 hours - Upperroom Prayer Meeting"
	subjectSummary      = "Tonight's Meeting Leaders - Upperroom Prayer Meeting"

	// shown when a role has no Booked record for the day
	notBooked = "Not booked"
)

func confirmationHTML(fullName, role, date, timeRange string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #fff5eb;">
  <div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px;">
    <h1 style="color: #ea580c;">Booking Confirmed!</h1>
    <p>Dear %s,</p>
    <p>Your slot has been successfully booked for the online meeting.</p>
    <div style="background: #fff7ed; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p><strong>Role:</strong> Lead %s</p>
      <p><strong>Date:</strong> %s</p>
      <p><strong>Time:</strong> %s</p>
    </div>
    <p>Thank you for your participation.</p>
    <p style="color: #666; font-size: 12px;">If you need to make changes, please contact the admin.</p>
  </div>
</body>
</html>`, fullName, role, date, timeRange)
}

func reminderHTML(fullName, role, date, timeRange string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #fff5eb;">
  <div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px;">
    <h1 style="color: #ea580c;">Reminder: Meeting in 4 Hours!</h1>
    <p>Dear %s,</p>
    <p>This is a friendly reminder that you are scheduled to participate in today's online meeting.</p>
    <div style="background: #fff7ed; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p><strong>Role:</strong> Lead %s</p>
      <p><strong>Date:</strong> Today (%s)</p>
      <p><strong>Time:</strong> %s</p>
    </div>
    <p style="color: #ea580c; font-weight: bold;">Please be ready to join 5-10 minutes early.</p>
    <p style="color: #666; font-size: 12px;">If you cannot attend, please contact the admin as soon as possible.</p>
  </div>
</body>
</html>`, fullName, role, date, timeRange)
}

func summaryHTML(date, prayerLeader, worshipLeader, timeRange string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #fff5eb;">
  <div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px;">
    <h1 style="color: #ea580c;">Tonight's Meeting Leaders</h1>
    <p>Summary for %s:</p>
    <div style="background: #fff7ed; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p><strong>Prayer:</strong> %s</p>
      <p><strong>Worship:</strong> %s</p>
      <p><strong>Time:</strong> %s</p>
    </div>
  </div>
</body>
</html>`, date, prayerLeader, worshipLeader, timeRange)
}
