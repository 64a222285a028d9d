package mailsmodels

import (
	"fmt"

	"github.com/RasParker/modular-maestro-sub000/utils"
)

func NewSubscriber(email string, fanName string, tierName string) {
	subject := "Subject: You have a new subscriber on Xclusive \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := fmt.Sprintf(`
	<div style="background-color: #722ED1; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%;  min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">New subscriber!</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">%s just subscribed to your <b>%s</b> tier.</td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">
						<p style="font-weight: bold; color: #722ED1; text-align:center;">Open your creator dashboard to say hi.</p>
					</td>
				</tr>
			</tbody>
		</table>
	</div>
`, fanName, tierName)

	message := []byte(subject + mime + body)

	utils.SendMail(email, message)
}
