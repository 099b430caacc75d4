package models

// Статусы проверки домашней работы, закрытый набор
const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

// HomeworkVerdicts сопоставляет статус ревью с текстом для пользователя
var HomeworkVerdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Homework - разобранная запись о последней работе
type Homework struct {
	Name   string `json:"homework_name"`
	Status string `json:"status"`
}

// Verdict возвращает текст вердикта и признак того, что статус известен
func (h Homework) Verdict() (string, bool) {
	v, ok := HomeworkVerdicts[h.Status]
	return v, ok
}
