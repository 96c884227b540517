package service

import "mueen-assist/internal/models"

// Localized user-facing strings. The working language of the corpus is
// Arabic; non-Arabic turns are translated at the dispatcher boundary.
const (
	msgNoAnswer = "لم أجد إجابة مناسبة حالياً. هل يمكنك توضيح سؤالك أكثر؟ او اذا اردت يمكنك التواصل مع خدمة العملاء لحل المشكلة ومراجعة سؤالك."

	msgUnsafe = "عذراً، هذا أسلوب غير لائق. نرجو التحدث باحترام. شكراً لتفهمك 🚫"

	msgCatalogFirstDotted = "هل تقصد اختيار خدمة؟ لعرض قائمة القطاعات اكتب 'خدمات' أو اسأل عن الخدمات أولاً، ثم اختر رقم القطاع لكي أتمكن من مساعدتك"
	msgCatalogFirstBare   = "هل تقصد اختيار خدمة من القائمة؟ لعرض القطاعات المتاحة اكتب 'خدمات' أولاً أو وضّح طلبك وسأنصحك بالخطوة التالية."

	msgSectorsHeader  = "لدينا العديد من الخدمات في قطاعات مختلفة، من فضلك اختر رقم القطاع لجلب الخدمات بداخله:\n\n"
	msgNoSectors      = "⚠️ لم يتم العثور على قطاعات متاحة حالياً."
	msgSectorsFailed  = "عذراً، حدث خطأ في جلب القطاعات. الرجاء المحاولة لاحقاً."
	msgServicesFailed = "⚠️ حدث خطأ أثناء جلب خدمات هذا القطاع."
	msgSectorComing   = "🔧 سوف يتم توفير هذه الخدمة قريباً."

	msgUnknownSelection = "⚠️ الاختيار غير موجود في القائمة. من فضلك اختر رقماً من القائمة المعروضة."

	msgOtherOption = "أخرى"

	msgChooseNationality   = "من فضلك اختر الجنسية المطلوبة للحصول على الباقات:\n\n"
	msgNoNationalities     = "⚠️ عذراً، لا توجد جنسيات متاحة لهذه الخدمة حالياً."
	msgBadNationality      = "⚠️ اختيار غير صالح. الرجاء اختيار الحرف المناسب (مثل A أو B)"
	msgNationalityNotFound = "⚠️ الجنسية المختارة غير موجودة في القائمة"
	msgNationalityFirst    = "من فضلك اختر الخدمة أولاً قبل اختيار الجنسية."

	msgChooseShift  = "من فضلك اختر الموعد المناسب:\n\n"
	msgNoShifts     = "⚠️ عذراً، لا توجد مواعيد متاحة لهذه الخدمة حالياً."
	msgBadShift     = "⚠️ اختيار غير صالح. الرجاء اختيار الموعد بالشكل الصحيح (مثل A1 أو 1)"
	msgShiftMissing = "⚠️ الموعد المختار غير موجود في القائمة"
	// Arguments: the typed letter, then the assigned nationality letter.
	msgShiftLetterMismatch = "⚠️ الحرف %s غير صحيح. الجنسية المختارة هي %s"

	msgPackagesHeader = "الباقات المتاحة للخيار المحدد:\n\n"
	msgNoPackages     = "⚠️ لا توجد باقات متاحة لهذا الاختيار حالياً."

	msgTryLater = "حدث خطأ أثناء معالجة طلبك، يرجى المحاولة لاحقاً."

	msgAskHousing      = "من فضلك اختر نوع السكن (شقة، فيلا، دور...):"
	msgBadHousing      = "⚠️ نوع السكن غير معروف. الأنواع المتاحة:\n"
	msgAskHouseNo      = "من فضلك أدخل رقم المنزل:"
	msgAskAddressNotes = "من فضلك أدخل أي ملاحظات إضافية على العنوان (أو اكتب لا يوجد):"

	msgProfileSaved  = "✅ تم حفظ بياناتك بنجاح.\n\n"
	msgAddressSaved  = "✅ تم حفظ بيانات العنوان بنجاح.\n\n"
	msgConfirmOrder  = "هل ترغب في تأكيد إرسال طلبك؟ (نعم/لا)"
	msgOrderCanceled = "تم إلغاء الطلب. كيف يمكنني مساعدتك؟"
	msgLeadCreated   = "✅ تم إرسال طلبك بنجاح، سيتواصل معك فريقنا قريباً. شكراً لتعاونك!"
	msgLeadFailed    = "⚠️ تعذر إرسال الطلب حالياً، يرجى المحاولة مرة أخرى بكتابة نعم."

	msgCityNotFound     = "⚠️ المدينة غير معروفة. من فضلك أدخل اسم مدينة من المدن المتاحة."
	msgDistrictNotFound = "⚠️ الحي غير معروف في هذه المدينة. من فضلك أدخل اسم حي متاح."

	msgCompleteProfileSuffix = "\n\nحتى نخدمك بشكل أفضل، من فضلك أكمل بياناتك."
)

// fieldPrompts are the collection prompts per required profile field.
var fieldPrompts = map[models.ProfileField]string{
	models.FieldName:     "من فضلك أدخل اسمك الكامل:",
	models.FieldPhone:    "من فضلك أدخل رقم هاتفك:",
	models.FieldCity:     "من فضلك أدخل اسم مدينتك:",
	models.FieldDistrict: "من فضلك أدخل اسم الحي:",
}
