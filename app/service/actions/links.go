package actions

import (
	"context"
	"strings"

	"casebot/app/service/chat"
	"casebot/app/service/tracker"
)

const profilePath = "/MyCaseWEB/UserInformationServlet"

type link struct {
	param string
	url   string
}

var (
	selfHelpHousing        = link{"self_help_housing_link", "https://www.utcourts.gov/selfhelp/housing.php"}
	protectiveOrders       = link{"protective_orders_link", "https://www.utcourts.gov/abuse/protective_orders.html"}
	evictionForLandlords   = link{"eviction_information_for_landlords_link", "https://www.utcourts.gov/howto/landlord/eviction-landlord.html"}
	evictionForTenants     = link{"eviction_information_for_tenants_link", "https://www.utcourts.gov/howto/landlord/eviction-tenant.html"}
	badHousing             = link{"bad_housing_page_from_utah_legal_services_link", "https://www.utahlegalservices.org/node/7/bad-housing"}
	answeringComplaint     = link{"answering_a_complaint_or_petition_link", "https://www.utcourts.gov/howto/answer/"}
	tenantPersonalProperty = link{"tenant_personal_property_link", "https://www.utcourts.gov/howto/landlord/tenants_personal_property.html#recovering"}
	refundingRenterDeposit = link{"refunding_renter_deposit_link", "https://www.utcourts.gov/howto/landlord/refunding_deposits.html"}
	findingLegalHelp       = link{"finding_legal_help_link", "https://www.utcourts.gov/howto/legalassist/"}
	selfHelpCenter         = link{"self_help_center_link", "https://www.utcourts.gov/selfhelp/contact/"}
)

// answer replies with a single template filled with the given links.
func answer(response string, links ...link) Handler {
	return func(context.Context, tracker.Request) (tracker.Response, error) {
		msg := chat.Utter(response)
		for _, l := range links {
			msg = msg.With(l.param, l.url)
		}

		return tracker.Response{Responses: []chat.Message{msg}}, nil
	}
}

func (s *Service) registerLinks() {
	profile := link{"url_link", strings.TrimRight(s.webURL, "/") + profilePath}

	s.registry.Register("action_direct_users_to_update_notification",
		answer(chat.UtterDirectionsToUpdateNotification, profile))
	s.registry.Register("action_direct_users_to_change_password",
		answer(chat.UtterDirectionsToChangePassword, profile))
	s.registry.Register("action_direct_users_to_change_username",
		answer(chat.UtterDirectionsToChangeUsername, profile))

	s.registry.Register("action_process_missed_hearing_notice",
		answer(chat.UtterProcessMissedHearingNotice, selfHelpCenter))
	s.registry.Register("action_process_lost_connection_during_hearing",
		answer(chat.UtterLostConnectionDuringHearing, selfHelpCenter))

	s.registry.Register("action_provide_eviction_summary",
		answer(chat.UtterEvictionSummary,
			selfHelpHousing, protectiveOrders, evictionForLandlords, evictionForTenants, badHousing,
			answeringComplaint, tenantPersonalProperty, refundingRenterDeposit, findingLegalHelp, selfHelpCenter))
	s.registry.Register("action_provide_eviction_procedure",
		answer(chat.UtterEvictionProcedure, protectiveOrders, evictionForLandlords, selfHelpCenter))
	s.registry.Register("action_process_eviction",
		answer(chat.UtterProcessEviction, evictionForTenants, badHousing, answeringComplaint, selfHelpCenter))
	s.registry.Register("action_retrieve_belongings",
		answer(chat.UtterRetrieveBelongings, tenantPersonalProperty, selfHelpCenter))
	s.registry.Register("action_process_rent_rejection",
		answer(chat.UtterProcessRentRejection))
	s.registry.Register("action_retrieve_deposit",
		answer(chat.UtterRetrieveDeposit, refundingRenterDeposit))
	s.registry.Register("action_provide_commercial_eviction_procedure",
		answer(chat.UtterCommercialEvictionProcedure, findingLegalHelp))
}
