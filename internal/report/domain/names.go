package domain

// Display names the report depends on. Category tables must contain each of them.
const (
	StatusHandedToSales = "Передано сейлу"
	StatusInProgress    = "В работе"
	StatusNotInterested = "Не интересно"

	ResultInProgress    = "В работе"
	ResultDeclined      = "Рассмотрели, но отказали"
	ResultDemoScheduled = "Договорились на демонстрацию"
	ResultSucceeded     = "Успешно"
)

const (
	TableStatus = "presale_statuses"
	TableResult = "presale_results"
)

func RequiredStatusNames() []string {
	return []string{StatusHandedToSales, StatusInProgress, StatusNotInterested}
}

func RequiredResultNames() []string {
	return []string{ResultInProgress, ResultDeclined, ResultDemoScheduled, ResultSucceeded}
}
