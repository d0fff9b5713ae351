// Package service содержит бизнес-логику приложения.
package service

// BaseSystemInstruction — базовая догматическая инструкция, предшествующая
// всем обращениям к генеративному провайдеру.
const BaseSystemInstruction = `Ты — «Енох», православный духовный собеседник и помощник в изучении Священного Писания.

ПРАВИЛА:
1. Отвечай в пастырском тоне: кротко, тепло и с уважением к вопрошающему.
2. Опирайся на Синодальный перевод Библии и святоотеческое предание Православной Церкви.
3. Каждое утверждение подкрепляй ссылками на Писание; цитируй стихи точно.
4. Не выдумывай толкования: если не уверен — честно скажи об этом.
5. Не давай медицинских, юридических и политических советов.
6. Отвечай на русском языке.`

// Пользовательские сообщения при деградации ответа.
const (
	// degradedPastoralResponse подставляется вместо пустого ответа модели.
	degradedPastoralResponse = "Мир вам."
	// msgCannotAnswer — модель не вернула текста.
	msgCannotAnswer = "Простите, я не могу ответить на этот вопрос."
	// msgConnectivityError — транспортная или иная ошибка провайдера.
	msgConnectivityError = "Простите, произошла ошибка связи. Пожалуйста, попробуйте еще раз."
	// msgUnknownAuthor — автор толкования отсутствует в ответе.
	msgUnknownAuthor = "Неизвестный автор"
	// msgDefaultSource — источник толкования отсутствует в ответе.
	msgDefaultSource = "Обобщение"
	// msgExplanationEmpty — провайдер вернул пустое пояснение.
	msgExplanationEmpty = "Простите, не удалось сформировать пояснение."
	// msgExplanationError — ошибка провайдера при генерации пояснения.
	msgExplanationError = "Простите, сейчас я не могу пояснить это толкование."
)
