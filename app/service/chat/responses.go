package chat

// Response templates defined in the dialogue framework domain.
const (
	UtterProblem                        = "utter_problem"
	UtterNotApplicable                  = "utter_not_applicable"
	UtterAuthenticationIssue            = "utter_authentication_issue"
	UtterCaseNumberMismatch             = "utter_case_number_mismatch"
	UtterDirectionsForCaseNumber        = "utter_directions_for_case_number"
	UtterSameCaseNumber                 = "utter_same_case_number"
	UtterSelectCase                     = "utter_select_case"
	UtterNoCases                        = "utter_no_cases"
	UtterCase                           = "utter_case"
	UtterCases                          = "utter_cases"
	UtterEnterCaseNumber                = "utter_enter_case_number"
	UtterUpcomingHearingInformation     = "utter_upcoming_hearing_information"
	UtterNextHearingDate                = "utter_next_hearing_date"
	UtterNoHearingDate                  = "utter_no_hearing_date"
	UtterDirectionsForHearingDate       = "utter_directions_for_hearing_date"
	UtterCaseInformation                = "utter_case_information"
	UtterNoValidCaseInformation         = "utter_no_valid_case_information"
	UtterDirectionsForCaseInformation   = "utter_directions_for_case_information"
	UtterCaseCharges                    = "utter_case_charges"
	UtterNoValidCaseCharges             = "utter_no_valid_case_charges"
	UtterNoCaseCharges                  = "utter_no_case_charges"
	UtterDirectionsForCaseCharges       = "utter_directions_for_case_charges"
	UtterCaseParties                    = "utter_case_parties"
	UtterNoValidCaseParties             = "utter_no_valid_case_parties"
	UtterNoCaseParties                  = "utter_no_case_parties"
	UtterFindCaseParties                = "utter_find_case_parties"
	UtterNoCasePayment                  = "utter_no_case_payment"
	UtterFindCasePayment                = "utter_find_case_payment"
	UtterFileUploadInformation          = "utter_file_upload_information"
	UtterNoFileUploadInformation        = "utter_no_file_upload_information"
	UtterWelcomeUser                    = "utter_welcome_user"
	UtterPopularQuestions               = "utter_popular_questions"
	UtterGreetUser                      = "utter_greet_user"
	UtterDirectionsToUpdateNotification = "utter_directions_to_update_notification"
	UtterDirectionsToChangePassword     = "utter_directions_to_change_password"
	UtterDirectionsToChangeUsername     = "utter_directions_to_change_username"
	UtterProcessMissedHearingNotice     = "utter_process_missed_hearing_notice"
	UtterLostConnectionDuringHearing    = "utter_process_lost_connection_during_hearing"
	UtterEvictionSummary                = "utter_eviction_summary"
	UtterEvictionProcedure              = "utter_eviction_procedure"
	UtterProcessEviction                = "utter_process_eviction"
	UtterRetrieveBelongings             = "utter_retrieve_belongings"
	UtterProcessRentRejection           = "utter_process_rent_rejection"
	UtterRetrieveDeposit                = "utter_procedure_to_retrieve_deposit"
	UtterCommercialEvictionProcedure    = "utter_commercial_eviction_procedure"
)
