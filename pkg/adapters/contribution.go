package adapters

import (
	"time"

	"github.com/de-tools/contriview/pkg/models/api"
	"github.com/de-tools/contriview/pkg/models/domain"
	"github.com/de-tools/contriview/pkg/models/store"
)

const dateLayout = "2006-01-02"

func MapContributionViewDomainToApi(username string, date time.Time, view domain.ContributionView) api.ContributionView {
	return api.ContributionView{
		Username:           username,
		Date:               date.Format(dateLayout),
		TodayContributions: view.TodayContributions,
		WeekContributions:  view.WeekContributions,
		MonthContributions: view.MonthContributions,
		YearContributions:  view.YearContributions,
		SumContributions:   view.SumContributions,
		WeekAve:            view.WeekAve,
		MonthAve:           view.MonthAve,
		SumAve:             view.SumAve,
	}
}

func MapDayReportDomainToApi(report domain.DayReport) api.DayContributions {
	return api.DayContributions{
		Username: report.Username,
		Date:     report.Date.Format(dateLayout),
		Count:    report.Count,
		Found:    report.Found,
	}
}

func MapSnapshotDomainToStore(snapshot domain.Snapshot) store.Snapshot {
	v := snapshot.View
	return store.Snapshot{
		Username:      snapshot.Username,
		ReferenceDate: snapshot.ReferenceDate,
		Today:         int64(v.TodayContributions),
		Week:          int64(v.WeekContributions),
		Month:         int64(v.MonthContributions),
		Year:          int64(v.YearContributions),
		AllTime:       int64(v.SumContributions),
		WeekAve:       int64(v.WeekAve),
		MonthAve:      int64(v.MonthAve),
		SumAve:        int64(v.SumAve),
		CreatedAt:     snapshot.CreatedAt,
	}
}

func MapSnapshotStoreToDomain(snapshot store.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		Username:      snapshot.Username,
		ReferenceDate: snapshot.ReferenceDate,
		View: domain.ContributionView{
			TodayContributions: int(snapshot.Today),
			WeekContributions:  int(snapshot.Week),
			MonthContributions: int(snapshot.Month),
			YearContributions:  int(snapshot.Year),
			SumContributions:   int(snapshot.AllTime),
			WeekAve:            int(snapshot.WeekAve),
			MonthAve:           int(snapshot.MonthAve),
			SumAve:             int(snapshot.SumAve),
		},
		CreatedAt: snapshot.CreatedAt,
	}
}

func MapSnapshotDomainToApi(snapshot domain.Snapshot) api.Snapshot {
	return api.Snapshot{
		ContributionView: MapContributionViewDomainToApi(snapshot.Username, snapshot.ReferenceDate, snapshot.View),
		CreatedAt:        snapshot.CreatedAt,
	}
}

func MapTrackedAccountDomainToApi(account domain.TrackedAccount) api.TrackedAccount {
	return api.TrackedAccount{
		Name:     account.Name,
		Username: account.Username,
	}
}
