package phone

import "github.com/nyaruka/phonenumbers"

// Line types reported in Result.LineType.
const (
	LineTypeMobile        = "mobile"
	LineTypeFixed         = "fixed_line"
	LineTypeFixedOrMobile = "fixed_line_or_mobile"
	LineTypeVoIP          = "voip"
	LineTypeOther         = "other"
	LineTypeUnknown       = "unknown"
)

// lineType classifies an international number using libphonenumber metadata.
// It is informational only and never rejects a number.
func lineType(international string) string {
	num, err := phonenumbers.Parse(international, "")
	if err != nil {
		return LineTypeUnknown
	}
	switch phonenumbers.GetNumberType(num) {
	case phonenumbers.MOBILE:
		return LineTypeMobile
	case phonenumbers.FIXED_LINE:
		return LineTypeFixed
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return LineTypeFixedOrMobile
	case phonenumbers.VOIP:
		return LineTypeVoIP
	case phonenumbers.UNKNOWN:
		return LineTypeUnknown
	default:
		return LineTypeOther
	}
}
