package view

import (
	"bytes"
	"image/color"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleRegular FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20
	maxLabelRunes    = 18
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	freeTimeColor    = color.NRGBA{133, 193, 85, 60}

	sessionPlannedColor   = color.RGBA{120, 170, 230, 230}
	sessionCompletedColor = color.RGBA{133, 193, 85, 230}
	sessionMissedColor    = color.RGBA{158, 158, 158, 200}
	sessionTextColor      = color.RGBA{20, 24, 28, 230}
	sessionShadowColor    = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage данные для отрисовки недели
type WeekImage struct {
	WeekStart time.Time // понедельник недели, 00:00
	Now       time.Time
	Sessions  []*model.StudySession
	FreeTimes []*model.FreeTime
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

func parsedFont(style FontStyle) (*opentype.Font, error) {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	if f, ok := cachedFonts[style]; ok {
		return f, nil
	}

	data := goregular.TTF
	if style == FontStyleBold {
		data = gobold.TTF
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	cachedFonts[style] = f
	return f, nil
}

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	f, err := parsedFont(style)
	if err == nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует неделю: свободное время фоном, сессии поверх
func GenerateWeekImage(w WeekImage) ([]byte, error) {
	weekStart := normalizeToDay(w.WeekStart)
	weekEnd := weekStart.AddDate(0, 0, totalDaysInWeek-1)
	today := normalizeToDay(w.Now.In(weekStart.Location()))
	highlightToday := !today.Before(weekStart) && !today.After(weekEnd)

	sessionsByDay := groupSessionsByDay(w.Sessions, weekStart.Location())
	hours := calculateHourRange(w.Sessions, w.FreeTimes)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, weekStart, weekEnd)
	drawHourLabels(dc, hours, cellHeight)

	date := weekStart
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)
		isToday := highlightToday && date.Equal(today)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawFreeTime(dc, w.FreeTimes, dayIndex+1, x, y, dayWidth, hours, cellHeight)
		drawDayHeader(dc, date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, s := range sessionsByDay[date.Format("2006-01-02")] {
			drawSession(dc, s, w.Now, x, y, dayWidth, hours, cellHeight)
		}

		date = date.AddDate(0, 0, 1)
	}

	if highlightToday {
		drawCurrentTimeLine(dc, w.Now.In(weekStart.Location()), hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func groupSessionsByDay(sessions []*model.StudySession, loc *time.Location) map[string][]*model.StudySession {
	byDay := make(map[string][]*model.StudySession)
	for _, s := range sessions {
		key := s.StartTime.In(loc).Format("2006-01-02")
		byDay[key] = append(byDay[key], s)
	}
	return byDay
}

// calculateHourRange определяет диапазон часов по сессиям и свободному времени
func calculateHourRange(sessions []*model.StudySession, freeTimes []*model.FreeTime) hourRange {
	minHour, maxHour := 24, 0
	extend := func(startH, endH int) {
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	for _, s := range sessions {
		endH := s.EndTime.Hour()
		if s.EndTime.Minute() > 0 {
			endH++
		}
		if !sameDay(s.StartTime, s.EndTime) {
			endH = 24
		}
		extend(s.StartTime.Hour(), endH)
	}
	for _, ft := range freeTimes {
		endH := ft.EndTime.Hour()
		if ft.EndTime.Minute() > 0 {
			endH++
		}
		extend(ft.StartTime.Hour(), endH)
	}

	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	start := minHour - hourPaddingTop
	end := maxHour + hourPaddingBot
	if start < 0 {
		start = 0
	}
	if end > 24 {
		end = 24
	}
	if end <= start {
		end = start + 1
	}

	return hourRange{start: start, end: end, total: end - start}
}

func hourOffset(hour, minute int, hours hourRange, cellHeight float64) float64 {
	return (float64(hour) + float64(minute)/60.0 - float64(hours.start)) * cellHeight
}

// drawHeader рисует заголовок с названием месяца
func drawHeader(dc *gg.Context, start, end time.Time) {
	title := MonthName(start.Month())
	if start.Month() != end.Month() {
		title += " - " + MonthName(end.Month())
	}
	title += " " + strconv.Itoa(end.Year())

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleRegular)
	dc.SetColor(hourLabelColor)

	for h := hours.start; h <= hours.end; h++ {
		y := float64(headerHeight) + float64(h-hours.start)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(h), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawFreeTime закрашивает свободные интервалы дня
func drawFreeTime(dc *gg.Context, freeTimes []*model.FreeTime, day int, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetColor(freeTimeColor)
	for _, ft := range freeTimes {
		if ft.DayOfWeek != day {
			continue
		}
		top := y + hourOffset(ft.StartTime.Hour(), ft.StartTime.Minute(), hours, cellHeight)
		bottom := y + hourOffset(ft.EndTime.Hour(), ft.EndTime.Minute(), hours, cellHeight)
		dc.DrawRectangle(x, top, float64(dayWidth), bottom-top)
		dc.Fill()
	}
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(WeekdayShort(model.ISOWeekday(date.Weekday())), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSession рисует одну сессию
func drawSession(dc *gg.Context, s *model.StudySession, now time.Time, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	start := s.StartTime
	end := s.EndTime
	endHour, endMinute := end.Hour(), end.Minute()
	if !sameDay(start, end) {
		endHour, endMinute = 24, 0
	}

	top := y + hourOffset(start.Hour(), start.Minute(), hours, cellHeight)
	height := hourOffset(endHour, endMinute, hours, cellHeight) - hourOffset(start.Hour(), start.Minute(), hours, cellHeight)
	if height < minSlotHeight {
		height = minSlotHeight
	}

	fill := sessionColor(s, now)
	width := float64(dayWidth) - float64(dayPaddingX*2)
	left := x + float64(dayPaddingX)

	dc.SetColor(sessionShadowColor)
	dc.DrawRoundedRectangle(left+shadowOffset, top+2+shadowOffset, width, height-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(left, top+2, width, height-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(left, top+2, width, height-4, slotBorderRadius)
	dc.Stroke()

	txtX := left + 8
	txtY := top + 18
	loadFont(dc, slotTimeFontSize, FontStyleBold)
	dc.SetColor(sessionTextColor)
	dc.DrawStringAnchored(FormatTimeRange(start, end), txtX, txtY, 0, 0)

	if s.SubjectName != "" && height > 25 {
		loadFont(dc, slotTimeFontSize-2, FontStyleRegular)
		dc.DrawStringAnchored(truncate(s.SubjectName, maxLabelRunes), txtX, txtY+16, 0, 0)
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// sessionColor цвет по состоянию: выполнена, пропущена или впереди
func sessionColor(s *model.StudySession, now time.Time) color.RGBA {
	switch {
	case s.Completed && s.ActualMinutes != nil:
		return sessionCompletedColor
	case s.Completed || s.IsExpired(now):
		return sessionMissedColor
	default:
		return sessionPlannedColor
	}
}

// truncate обрезает строку по рунам, а не по байтам
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	current := float64(now.Hour()) + float64(now.Minute())/60.0
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}

	y := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), y)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	items := []struct {
		label string
		clr   color.Color
	}{
		{"Запланировано", sessionPlannedColor},
		{"Выполнено", sessionCompletedColor},
		{"Пропущено", sessionMissedColor},
		{"Свободно", freeTimeColor},
	}

	const boxW, boxH = 20.0, 14.0
	x := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	y := float64(imageHeight) - 130.0

	loadFont(dc, legendItemFontSize, FontStyleRegular)
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, x+boxW+8, y+boxH/2+1, 0, 0.2)
		y += boxH + 14
	}
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}
