package narration

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "phase.intro", "Hello! Module %[1]d, level %[2]d. We are going to count red marbles and blue marbles. Press Start when you are ready.")
	message.SetString(lang, "phase.redCount", "How many red marbles are there?")
	message.SetString(lang, "phase.blueCount", "How many blue marbles are there?")
	message.SetString(lang, "phase.totalCount", "The marbles are hidden. How many marbles are there altogether?")
	message.SetString(lang, "phase.totalFirst", "Count all the marbles. How many are there altogether?")
	message.SetString(lang, "phase.secondColor.blue", "There are %[1]d marbles altogether and %[2]d red ones. How many blue marbles are there?")
	message.SetString(lang, "phase.secondColor.red", "There are %[1]d marbles altogether and %[2]d blue ones. How many red marbles are there?")
	message.SetString(lang, "phase.vennDiagram", "Fill in the diagram labels with the number of marbles of each color.")
	message.SetString(lang, "phase.equation", "Write the matching operation and its result.")
	message.SetString(lang, "phase.verify.correct", "Well done! %[1]d + %[2]d = %[3]d. Check with the marbles.")
	message.SetString(lang, "phase.verify.incorrect", "Not quite. %[1]d + %[2]d = %[3]d, and you answered %[4]d. Look closely at the marbles.")
	message.SetString(lang, "phase.verify.correct.subtraction", "Well done! %[1]d - %[2]d = %[3]d. Check with the marbles.")
	message.SetString(lang, "phase.verify.incorrect.subtraction", "Not quite. %[1]d - %[2]d = %[3]d. Look closely at the marbles.")
	message.SetString(lang, "phase.result", "All done! You found %[1]d right answers out of %[2]d.")

	message.SetString(lang, "retry.count", "That count is not right, try again.")
	message.SetString(lang, "retry.total", "That is not the right number of marbles altogether. Count again.")
	message.SetString(lang, "retry.invalidNumber", "Please enter a valid number.")
	message.SetString(lang, "retry.venn", "The labels are not right yet. Try again.")
	message.SetString(lang, "retry.equationOperation", "The operation is not right. Try writing it again.")
	message.SetString(lang, "retry.equationResult", "The result is not right. Try calculating again.")
	message.SetString(lang, "retry.equationInvalidResult", "Please enter a valid number for the result.")
}
