package session

import (
	"fmt"
	"strings"
)

// functionHelp prints helpful information about specific commands.
func (c *Console) functionHelp(line string) {
	args := strings.Split(line, " ")
	args = args[1:] // chop off the first word which should be "help"
	var helpKey string
	if len(args) == 0 {
		helpKey = "help"
	} else {
		helpKey = args[0]
	}
	switch helpKey {
	case "sub":
		fmt.Println(`
		Any line that is not a backslash command is sent as a subscribe
		payload. A bare word is shorthand for {"type": <word>}; extra
		fields follow as a JSON object.

		- Example: one-shot answer:

			>> portfolio

		- Example: streaming quote:

			>> ticker {"id": "US0378331005.LSX"}

		- Example: full payload:

			>> {"type": "timelineTransactions"}

		Every resolved message is printed with the subscription id as
		prefix until the subscription is ended with \unsub.`)

	case "unsub":
		fmt.Println(`
		Syntax:

			>> \unsub <id>

		Ends the subscription with the given id. Active ids are listed
		with \subs.`)

	case "subs":
		fmt.Println(`
		Lists the ids of all active subscriptions.`)

	case "help":
		fmt.Println(`
		Usage: \help command_name

		Available commands: sub, unsub, subs`)

	default:
		fmt.Printf("No help available for %s\n", helpKey)
	}
}
