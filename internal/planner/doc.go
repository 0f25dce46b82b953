// Package planner превращает предметы и свободное время пользователя в
// конкретные учебные сессии.
//
// Здесь живут три части генерации расписания, не зависящие от хранилища:
// запрос к советнику (BuildPrompt), разбор его ответа (ParseAdvice) и
// детерминированный запасной распределитель (FallbackAllocator). Обе ветки
// переводят день недели и время в дату через одну и ту же NextOccurrence,
// поэтому их результаты согласованы.
package planner
