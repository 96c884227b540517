package nlp

// arabicStopwords is the fixed stopword set dropped during tokenization.
var arabicStopwords = map[string]struct{}{
	"في":    {},
	"من":    {},
	"الى":   {},
	"إلى":   {},
	"على":   {},
	"عن":    {},
	"مع":    {},
	"هل":    {},
	"ما":    {},
	"ماذا":  {},
	"لماذا": {},
	"كيف":   {},
	"متى":   {},
	"اين":   {},
	"أين":   {},
	"هو":    {},
	"هي":    {},
	"هذا":   {},
	"هذه":   {},
	"ذلك":   {},
	"تلك":   {},
	"ان":    {},
	"أن":    {},
	"إن":    {},
	"لا":    {},
	"نعم":   {},
	"او":    {},
	"أو":    {},
	"ثم":    {},
	"قد":    {},
	"كل":    {},
	"بعض":   {},
	"اي":    {},
	"أي":    {},
	"يا":    {},
	"لك":    {},
	"لي":    {},
	"له":    {},
	"لها":   {},
	"انا":   {},
	"أنا":   {},
	"انت":   {},
	"أنت":   {},
	"نحن":   {},
	"هم":    {},
	"كان":   {},
	"كانت":  {},
	"يكون":  {},
	"حتى":   {},
	"اذا":   {},
	"إذا":   {},
	"لو":    {},
	"لكن":   {},
	"و":     {},
	"ف":     {},
	"ب":     {},
	"ل":     {},
	"عند":   {},
	"بعد":   {},
	"قبل":   {},
	"بين":   {},
	"فوق":   {},
	"تحت":   {},
}

// ServiceKeywords are the intent markers that route a turn to the catalog
// listing instead of the FAQ engine.
var ServiceKeywords = []string{
	"خدمات",
	"خدمة",
	"الخدمات",
	"الخدمه",
	"خدماتكم",
	"باقات",
	"الباقات",
	"باقه",
	"باقة",
	"اشتراك",
	"الاشتراك",
	"عامله",
	"عاملة",
	"عمالة",
	"العمالة",
	"تنظيف",
	"النظافة",
	"استقدام",
	"الاستقدام",
}

// IsStopword reports whether the token is in the fixed stopword set.
func IsStopword(token string) bool {
	_, ok := arabicStopwords[token]
	return ok
}
