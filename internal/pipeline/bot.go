package pipeline

// Bot об'єднує обробники, які викликають транспорти (MTProto або Bot API).
type Bot struct {
	Links  *Links
	Photos *Photos
	Admin  *Admin
}
