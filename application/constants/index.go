package constants

// biointake response codes
// these consist of 4 digit numbers
//
// the 1st 3 identify the scenario
// 4th indicates if the response requires user interaction through a dialog box. 0 means it does not require. 1 means it requires.

var RETRYABLE_FETCH_FAILURE uint = 3120    // the image host failed; the client may retry later
var ANALYSIS_CAPACITY_REACHED uint = 3210  // every analysis worker is busy; retry later
var FINGERPRINT_REJECTED uint = 4521       // ask the user to capture the fingerprint again
var FINGERPRINT_NOT_REGISTERED uint = 4531 // take the user to fingerprint registration
var SIGN_IN_REQUIRED uint = 6111           // take the user to sign in

var ANALYSIS_HISTORY_LIMIT int64 = 50
