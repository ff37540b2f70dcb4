package narration

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.French

	message.SetString(lang, "phase.intro", "Bonjour ! Module %[1]d, niveau %[2]d. Nous allons compter des billes rouges et des billes bleues. Clique sur Commencer quand tu es prêt.")
	message.SetString(lang, "phase.redCount", "Combien y a-t-il de billes rouges ?")
	message.SetString(lang, "phase.blueCount", "Combien y a-t-il de billes bleues ?")
	message.SetString(lang, "phase.totalCount", "Les billes sont cachées. Combien y a-t-il de billes en tout ?")
	message.SetString(lang, "phase.totalFirst", "Compte toutes les billes. Combien y en a-t-il en tout ?")
	message.SetString(lang, "phase.secondColor.blue", "Il y a %[1]d billes en tout et %[2]d billes rouges. Combien y a-t-il de billes bleues ?")
	message.SetString(lang, "phase.secondColor.red", "Il y a %[1]d billes en tout et %[2]d billes bleues. Combien y a-t-il de billes rouges ?")
	message.SetString(lang, "phase.vennDiagram", "Complète les étiquettes du diagramme avec le nombre de billes de chaque couleur.")
	message.SetString(lang, "phase.equation", "Écris l'opération qui correspond et son résultat.")
	message.SetString(lang, "phase.verify.correct", "Bravo ! %[1]d + %[2]d = %[3]d. Vérifie avec les billes.")
	message.SetString(lang, "phase.verify.incorrect", "Ce n'est pas tout à fait ça. %[1]d + %[2]d = %[3]d, et tu as répondu %[4]d. Regarde bien les billes.")
	message.SetString(lang, "phase.verify.correct.subtraction", "Bravo ! %[1]d - %[2]d = %[3]d. Vérifie avec les billes.")
	message.SetString(lang, "phase.verify.incorrect.subtraction", "Ce n'est pas tout à fait ça. %[1]d - %[2]d = %[3]d. Regarde bien les billes.")
	message.SetString(lang, "phase.result", "C'est terminé ! Tu as trouvé %[1]d bonnes réponses sur %[2]d.")

	message.SetString(lang, "retry.count", "Tu n'as pas bien compté, recommence.")
	message.SetString(lang, "retry.total", "Ce n'est pas le bon nombre total de billes. Compte à nouveau.")
	message.SetString(lang, "retry.invalidNumber", "Tu dois entrer un nombre valide.")
	message.SetString(lang, "retry.venn", "Tu n'as pas bien complété les étiquettes. Réessaie.")
	message.SetString(lang, "retry.equationOperation", "L'opération n'est pas correcte. Réessaie de l'écrire correctement.")
	message.SetString(lang, "retry.equationResult", "Le résultat n'est pas correct. Réessaie de calculer.")
	message.SetString(lang, "retry.equationInvalidResult", "Tu dois entrer un nombre valide pour le résultat.")
}
