// Package content holds the marketing copy, media references and inline
// keyboard layouts the funnel sends. Texts use Telegram HTML markup.
package content

// Message keys known to the catalog.
const (
	KeyWelcome           = "welcome"
	KeyWelcomeFallback   = "welcome_fallback"
	KeyVideo             = "video"
	KeyVideoFollowup     = "video_followup"
	KeyVideoCase         = "video_case"
	KeyPresentation      = "presentation"
	KeyPresentationCase  = "presentation_case"
	KeyFirstFollowup     = "first_followup"
	KeyCase              = "case"
	KeyConsultationIntro = "consultation_intro"
	KeyCalculationIntro  = "calculation_intro"
	KeyAuditIntro        = "audit_intro"
	KeyAskName           = "ask_name"
	KeyAskContact        = "ask_contact"
	KeyAskComment        = "ask_comment"
	KeyConfirmation      = "confirmation"
	KeyUnrecognized      = "unrecognized"
)

// Callback keys carried in inline button payloads.
const (
	BtnGetVideo              = "get_video"
	BtnGetPresentation       = "get_presentation"
	BtnWantConsultation      = "want_consultation"
	BtnWantCalculation       = "want_calculation"
	BtnWantAudit             = "want_audit"
	BtnWantSame              = "want_same"
	BtnWantCalculationCase   = "want_calculation_case"
	BtnWantPresentation      = "want_presentation"
	BtnVideoWantConsultation = "video_want_consultation"
	BtnVideoWantCalculation  = "video_want_calculation"
	BtnVideoWantPresentation = "video_want_presentation"
	BtnVideoNeedAudit        = "video_need_audit"
	BtnPresentationNeedAudit = "presentation_need_audit"
)

// Request types recorded with a submitted lead.
const (
	RequestConsultation    = "Консультация"
	RequestCalculation     = "Расчет под бизнес"
	RequestAudit           = "Аудит звонков"
	RequestCaseSame        = "Хочу так же (медкейс)"
	RequestCaseCalculation = "Расчет (медкейс)"
)

// Button is a single inline keyboard button.
type Button struct {
	Label string
	Key   string
}

// Message is one outbound funnel message. When MediaKey is set the
// message is sent as a photo; if MediaCaption is also set the photo goes
// out first with that short caption and the full text follows as a
// separate message carrying the buttons.
type Message struct {
	Key          string
	Text         string
	MediaKey     string
	MediaCaption string
	NoPreview    bool
	Buttons      [][]Button
}

// Catalog resolves message keys to their content.
type Catalog struct {
	messages map[string]Message
}

// New builds the full catalog.
func New() *Catalog {
	c := &Catalog{messages: make(map[string]Message)}
	for _, m := range allMessages() {
		c.messages[m.Key] = m
	}
	return c
}

// Get returns the message for the key.
func (c *Catalog) Get(key string) (Message, bool) {
	m, ok := c.messages[key]
	return m, ok
}

// MustGet returns the message for the key and panics on unknown keys.
// Catalog keys are compile-time constants, so a miss is a programming error.
func (c *Catalog) MustGet(key string) Message {
	m, ok := c.messages[key]
	if !ok {
		panic("content: unknown message key: " + key)
	}
	return m
}

func allMessages() []Message {
	return []Message{
		{
			Key: KeyWelcome,
			Text: "👋 Добро пожаловать в MirAl — это бот, который поможет вам увидеть, " +
				"<b>что на самом деле происходит в вашем отделе продаж.</b>\n\n" +
				"Здесь вы получите:\n" +
				"✔️ Короткое видео от основателя проекта\n" +
				"✔️ Презентацию с кейсами и расчётами\n" +
				"✔️ Возможность оставить заявку на расчёт или бесплатную консультацию\n\n" +
				"<b>Что такое MirAl?</b>\n" +
				"Это Telegram-бот с ИИ-аналитикой звонков. Он за секунды показывает, кто из менеджеров продаёт, " +
				"а кто просто разговаривает. Вы будете получать отчёты после каждого звонка, " +
				"без прослушек и субъективных разборов.\n\n" +
				"<b>Почему этому стоит доверять:</b>\n" +
				"Валерий Елизаров — серийный предприниматель, который сам прошёл путь: " +
				"от отдела с хаосом до выручки 500+ млн в год. Он создал MirAl не как проект \"в стол\", " +
				"а чтобы решить собственную проблему — контролировать отдел без потерь времени и нервов.\n\n" +
				"👇 Выберите, с чего начать:",
			MediaKey: "welcome.jpg",
			Buttons: [][]Button{
				{{Label: "Получить видео", Key: BtnGetVideo}},
				{{Label: "Получить презентацию (PDF файл)", Key: BtnGetPresentation}},
			},
		},
		{
			Key:  KeyWelcomeFallback,
			Text: "Добро пожаловать! Используйте кнопки ниже для начала работы.",
			Buttons: [][]Button{
				{{Label: "Получить видео", Key: BtnGetVideo}},
				{{Label: "Получить презентацию (PDF файл)", Key: BtnGetPresentation}},
			},
		},
		{
			Key: KeyVideo,
			Text: "Отлично! Вот короткое видео — 5 минут вашего времени, но в нем самое важное:\n\n" +
				"📌 с какой проблемой сталкиваются 90% отделов продаж\n" +
				"📌 как ИИ решает это за 2 минуты вместо 2 часов\n" +
				"📌 и почему выручка начинает расти уже в первый месяц\n\n" +
				"🎥 <a href=\"https://drive.google.com/file/d/1Jdwu72HyOHrAM-KvTXRGWyzoPdkxXcZI/view?usp=drive_link\">Посмотреть видео</a>",
			NoPreview: true,
		},
		{
			Key: KeyVideoFollowup,
			Text: "Вы только что посмотрели, как можно получить полный контроль над звонками —\n" +
				"<b>без прослушек</b>, без найма контролёров, без догадок.\n" +
				"<b>MirAl — это не обещание, это цифры и результат</b>.\n" +
				"Вы увидели, как он находит “слабые звенья”, экономит до 300 000 ₽ в месяц и даёт вам полный контроль над тем, что происходит в отделе продаж.\n\n" +
				"📊 А теперь — выбирайте, какой следующий шаг вам ближе:",
			Buttons: [][]Button{
				{{Label: "Хочу консультацию", Key: BtnVideoWantConsultation}},
				{{Label: "Хочу расчет под мой бизнес", Key: BtnVideoWantCalculation}},
				{{Label: "Хочу презентацию", Key: BtnVideoWantPresentation}},
			},
		},
		{
			Key: KeyVideoCase,
			Text: "Владелец интернет-магазина мебели был уверен: если рекламный трафик идёт, заявки поступают, значит — дело в цене.\n" +
				"Но выручка не росла, а затраты на аутсорс-команду продаж продолжали съедать бюджет.\n" +
				"📉 6 менеджеров на удалёнке звонили по лидам, отчитывались в CRM, обещали результат.\n" +
				"А по факту — клиенты “думали”, “уточняли у мужа”, “вернёмся позже”.\n\n" +
				"После подключения MirAl картина стала резко ясной:\n" +
				"— 4 менеджера <b>не задавали ни одного уточняющего вопроса</b>\n" +
				"— в 60% звонков не озвучивались сроки доставки и гарантии\n" +
				"— диалог сводился к «мы вам всё скинули на почту»\n\n" +
				"🚫 Эти 4 сотрудника были отключены уже на второй неделе.\n" +
				"Бизнес перестал платить за разговоры, и начал платить за результат.\n" +
				"<b>Экономия — 240 000 ₽.</b>\n" +
				"<b>Качество звонков выросло.</b>\n" +
				"<b>Контроль — в Telegram, без прослушек.</b>\n\n" +
				"📍 Хотите такую же ясность у себя? Оставляйте заявку на бесплатный аудит.",
			MediaKey:     "furniture_case.jpg",
			MediaCaption: "💸 «Мы сэкономили 240 000 ₽ за 2 недели работы с MirAl»\n",
			Buttons: [][]Button{
				{{Label: "Нужен аудит", Key: BtnVideoNeedAudit}},
			},
		},
		{
			Key: KeyPresentation,
			Text: "<b>Презентация отправлена — теперь у вас есть цифры и кейсы</b>\n\n" +
				"📎 <a href=\"https://drive.google.com/file/d/1rIHkpo766NkbGVl2F_Qp-oC5Ln7_5FR3/view?usp=drive_link\">Скачать презентацию</a>\n\n" +
				"Вы получили главное:\n" +
				"— <b>Как работает MirAl</b>\n" +
				"— <b>Реальные кейсы</b> с ростом выручки до +41%\n" +
				"— <b>Сколько можно сэкономить</b> на контроле и неэффективных менеджерах\n" +
				"— Примеры расчётов и формата сотрудничества\n\n" +
				"📌 Это не “красивая упаковка” — это <b>конкретные сценарии</b>, " +
				"которые уже сработали у предпринимателей, таких же как вы.\n\n" +
				"Теперь самое важное — адаптировать это под вашу ситуацию. Выберите следующий шаг:",
			NoPreview: true,
			Buttons: [][]Button{
				{{Label: "Хочу консультацию", Key: BtnWantConsultation}},
				{{Label: "Хочу расчет под свой бизнес", Key: BtnWantCalculation}},
				{{Label: "Хочу видео", Key: BtnGetVideo}},
			},
		},
		{
			Key: KeyPresentationCase,
			Text: "Владелец компании по продаже кровельных материалов, Андрей, думал, что у него сильная команда.\n" +
				"Звонки шли, CRM заполнялась, менеджеры отчитывались — но выручка стояла.\n" +
				"💬 «Мы лили трафик, тратили на рекламу, а в итоге слышали “будем думать” или “перезвоните позже”.\n" +
				"Хотя продукт конкурентный, цена хорошая, логистика выстроена». Что пошло не так?\n" +
				"После подключения MirAl стало очевидно:\n" +
				"— 3 менеджера <b>теряли клиента прямо в первом касании</b>\n" +
				"— скрипты игнорировались\n" +
				"— один менеджер даже <b>называл цену, не узнав объём и регион доставки</b>\n\n" +
				"📊 Через 2 недели:\n" +
				"— 3 слабых сотрудника заменены\n" +
				"— Новички с первых дней получают обратную связь от MirAl\n" +
				"— Руководитель перестал тратить часы на прослушку\n\n" +
				"<b>Результат через 45 дней: +1,3 млн ₽ к выручке.</b>\n" +
				"🔒 MirAl даёт результат быстро — но мы <b>ограничиваем количество подключений в месяц</b>, " +
				"чтобы сохранить качество внедрения.\n" +
				"<b>Стоимость запуска от 100 000 ₽</b>, подписка — от 3 ₽ за минуту.\n" +
				"<b>Оплата — только после результата.</b>\n\n" +
				"📥 Презентацию вы уже видели.\n" +
				"Готовы обсудить расчёт и запуск под вашу задачу?",
			MediaKey:     "roof_case.jpg",
			MediaCaption: "📈 +1,3 млн ₽ к выручке за 45 дней",
			Buttons: [][]Button{
				{{Label: "Хочу так же", Key: BtnPresentationNeedAudit}},
				{{Label: "Получить расчёт", Key: BtnPresentationNeedAudit}},
			},
		},
		{
			Key: KeyFirstFollowup,
			Text: "Вы тратите деньги на рекламу, платите зарплаты менеджерам, а клиенты всё равно \"не доходят\" до сделки?\n\n" +
				"❌ Звонки есть — продаж нет.\n" +
				"❌ Скрипты написаны — но не работают.\n" +
				"❌ Руководитель слушает 5 звонков из 500 — и делает выводы \"на ощупь\".\n\n" +
				"Всё это не про неудачу. Это про <b>отсутствие контроля</b>.\n\n" +
				"👉 MirAl — ИИ-бот, который уже на третий день покажет, где теряются ваши деньги:\n" +
				"— Кто из менеджеров сливает заявки\n" +
				"— Где ломается воронка\n" +
				"— Кто работает на результат, а кто просто \"отрабатывает смену\"\n\n" +
				"Хотите увидеть это на примере <b>ваших звонков</b>?\n\n" +
				"📩 Оставьте заявку на аудит — и получите чёткий разбор, без обязательств и продаж \"в лоб\".\n\n" +
				"<b>Мест немного — работа с каждым клиентом индивидуальна.</b>",
			Buttons: [][]Button{
				{{Label: "Хочу аудит моих звонков", Key: BtnWantAudit}},
			},
		},
		{
			Key:      KeyCase,
			Text:     "<b>Кейс:</b> “+18% повторных визитов в медицинском центре”",
			MediaKey: "medical_case.jpg",
			Buttons: [][]Button{
				{{Label: "Хочу так же", Key: BtnWantSame}},
				{{Label: "Получить расчет", Key: BtnWantCalculationCase}},
			},
		},
		{
			Key: KeyConsultationIntro,
			Text: "Отличный выбор — чем быстрее разберёмся в вашей ситуации, тем быстрее вы начнёте экономить и зарабатывать больше.\n" +
				"Наш менеджер <b>в ближайшее время свяжется с вами</b>, чтобы:\n" +
				" — уточнить, <b>что именно у вас происходит сейчас</b> в отделе продаж\n" +
				" — согласовать <b>удобное время для консультации</b>\n" +
				" — и подготовить конкретные предложения под вашу задачу",
		},
		{
			Key: KeyCalculationIntro,
			Text: "Мы видим вашу боль — и понимаем, как важно <b>точно знать</b>, во сколько вам обойдётся внедрение MirAl и какие деньги вы сможете сэкономить уже в первый месяц.\n" +
				"<b>Наш менеджер скоро свяжется с вами</b>, чтобы:\n" +
				" — обсудить вашу текущую ситуацию\n" +
				" — согласовать удобное время для расчёта\n" +
				" — задать ключевые вопросы: сколько звонков, сколько менеджеров, какая CRM, какие боли вы хотите закрыть\n" +
				"📞 <b>Пожалуйста, обязательно возьмите трубку</b> — от этого разговора зависит, как быстро вы получите контроль, цифры и результат.",
		},
		{
			Key: KeyAuditIntro,
			Text: "✅ Всё отлично! Мы получили ваш запрос на аудит звонков.\n\n" +
				"Наш специалист в ближайшее время свяжется с вами, чтобы:\n" +
				"— уточнить технические детали подключения\n" +
				"— согласовать удобное время\n" +
				"— объяснить, как именно пройдёт аудит и что вы получите на выходе\n\n" +
				"📌 Пожалуйста, будьте на связи — от этого зависит, насколько быстро вы увидите " +
				"реальные точки роста в вашем отделе продаж.\n\n" +
				"До скорого!",
		},
		{
			Key:  KeyAskName,
			Text: "Отлично! Давайте познакомимся.\n\nПожалуйста, введите ваше имя:",
		},
		{
			Key:  KeyAskContact,
			Text: "Теперь введите ваш телефон или Telegram для связи:",
		},
		{
			Key:  KeyAskComment,
			Text: "Расскажите коротко о вашем бизнесе и какие задачи хотите решить:",
		},
		{
			Key: KeyConfirmation,
			Text: "✅ Отлично! Ваша заявка принята.\n\n" +
				"Наш специалист свяжется с вами в течение 24 часов и поможет настроить MirAl под ваши задачи.\n\n" +
				"А пока вы можете изучить презентацию или посмотреть видео, если ещё не успели это сделать.",
		},
		{
			Key: KeyUnrecognized,
			Text: "Я не понимаю вашего сообщения. Пожалуйста, используйте команду /start " +
				"или выберите одну из предложенных опций.",
		},
	}
}
