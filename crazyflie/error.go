package crazyflie

import "fmt"

type crazyflieError uint8

func (e crazyflieError) Error() string {
	return fmt.Sprintf("crazyflie: %s", crazyflieErrorString[e])
}

const (
	ErrorNoResponse crazyflieError = iota
	ErrorInvalidURI
	ErrorInvalidDeviceID

	ErrorLogBlockOrItemNotFound
	ErrorLogBlockNoMemory
	ErrorLogBlockTooLong
	ErrorLogBlockPeriodTooShort

	ErrorParamNotFound

	ErrorBroadcastRequiresRadio

	ErrorUnknown
)

var crazyflieErrorString = map[crazyflieError]string{
	ErrorNoResponse:      "not responding",
	ErrorInvalidURI:      "link URI is not valid",
	ErrorInvalidDeviceID: "device index outside the supported slot table",

	ErrorLogBlockOrItemNotFound: "log block or item not found",
	ErrorLogBlockNoMemory:       "no free log block id",
	ErrorLogBlockTooLong:        "log block is too long",
	ErrorLogBlockPeriodTooShort: "log block reporting period too short",

	ErrorParamNotFound: "parameter not found",

	ErrorBroadcastRequiresRadio: "broadcasting requires a radio link",

	ErrorUnknown: "an unknown error occurred",
}
