package availability_test

import (
	"encoding/json"
	"testing"
	"time"

	availability "github.com/shiftmatch/shiftmatch/internal/domain/availability"
	"github.com/shiftmatch/shiftmatch/internal/domain/timeslot"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordUnmarshalJSON(t *testing.T) {
	Convey("Given raw availability JSON", t, func() {
		Convey("When a day value is a bare slot array", func() {
			var rec availability.Record
			err := json.Unmarshal([]byte(`{
				"monday": [{"startTime":"09:00","endTime":"17:00"}]
			}`), &rec)

			Convey("Then it decodes with an implicit custom repeat", func() {
				So(err, ShouldBeNil)
				So(rec, ShouldHaveLength, 1)
				So(rec[0].Key, ShouldEqual, "monday")
				So(rec[0].Entry.Repeat, ShouldEqual, availability.RepeatCustom)
				So(rec[0].Entry.Slots, ShouldResemble, []timeslot.Slot{{Start: "09:00", End: "17:00"}})
			})
		})

		Convey("When a day value is a slots object with a repeat type", func() {
			var rec availability.Record
			err := json.Unmarshal([]byte(`{
				"2024-06-03": {"repeatType":"weekly","slots":[{"startTime":"08:00","endTime":"12:00"}]}
			}`), &rec)

			Convey("Then both fields survive decoding", func() {
				So(err, ShouldBeNil)
				So(rec, ShouldHaveLength, 1)
				So(rec[0].Entry.Repeat, ShouldEqual, availability.RepeatWeekly)
				So(rec[0].Entry.Slots, ShouldHaveLength, 1)
			})
		})

		Convey("When a repeat type is missing or unknown", func() {
			var rec availability.Record
			err := json.Unmarshal([]byte(`{
				"tuesday": {"slots":[{"startTime":"08:00","endTime":"09:00"}]},
				"wednesday": {"repeatType":"fortnightly","slots":[{"startTime":"08:00","endTime":"09:00"}]}
			}`), &rec)

			Convey("Then it collapses to custom", func() {
				So(err, ShouldBeNil)
				So(rec[0].Entry.Repeat, ShouldEqual, availability.RepeatCustom)
				So(rec[1].Entry.Repeat, ShouldEqual, availability.RepeatCustom)
			})
		})

		Convey("When keys arrive in a given order", func() {
			var rec availability.Record
			err := json.Unmarshal([]byte(`{
				"friday": [],
				"monday": [],
				"wednesday": []
			}`), &rec)

			Convey("Then insertion order is preserved", func() {
				So(err, ShouldBeNil)
				So(rec[0].Key, ShouldEqual, "friday")
				So(rec[1].Key, ShouldEqual, "monday")
				So(rec[2].Key, ShouldEqual, "wednesday")
			})
		})

		Convey("When the payload is null", func() {
			var rec availability.Record
			err := json.Unmarshal([]byte(`null`), &rec)

			Convey("Then the record is empty", func() {
				So(err, ShouldBeNil)
				So(rec, ShouldBeNil)
			})
		})

		Convey("When the payload is not an object", func() {
			var rec availability.Record
			err := json.Unmarshal([]byte(`[1,2,3]`), &rec)

			Convey("Then decoding fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRecordMarshalRoundTrip(t *testing.T) {
	Convey("Given a decoded record", t, func() {
		var rec availability.Record
		So(json.Unmarshal([]byte(`{
			"saturday": [{"startTime":"10:00","endTime":"14:00"}],
			"monday": {"repeatType":"weekly","slots":[{"startTime":"09:00","endTime":"17:00"}]}
		}`), &rec), ShouldBeNil)

		Convey("When marshaled and decoded again", func() {
			out, err := json.Marshal(rec)
			So(err, ShouldBeNil)

			var again availability.Record
			So(json.Unmarshal(out, &again), ShouldBeNil)

			Convey("Then key order and repeat types survive", func() {
				So(again, ShouldHaveLength, 2)
				So(again[0].Key, ShouldEqual, "saturday")
				So(again[1].Key, ShouldEqual, "monday")
				So(again[0].Entry.Repeat, ShouldEqual, availability.RepeatCustom)
				So(again[1].Entry.Repeat, ShouldEqual, availability.RepeatWeekly)
			})
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given raw availability records", t, func() {
		Convey("When two calendar dates fall on the same weekday", func() {
			// 2024-06-03 and 2024-06-10 are both Mondays.
			var rec availability.Record
			So(json.Unmarshal([]byte(`{
				"2024-06-03": {"repeatType":"weekly","slots":[{"startTime":"09:00","endTime":"17:00"}]},
				"2024-06-10": {"repeatType":"weekly","slots":[{"startTime":"18:00","endTime":"22:00"}]}
			}`), &rec), ShouldBeNil)

			norm := availability.Normalize(rec)

			Convey("Then only the first Monday contributes", func() {
				So(norm.Weekly, ShouldHaveLength, 1)
				So(norm.Weekly[time.Monday], ShouldResemble, []timeslot.Slot{{Start: "09:00", End: "17:00"}})
				So(norm.TotalWeeklyHours, ShouldEqual, 8)
			})
		})

		Convey("When weekday names and dates are mixed", func() {
			var rec availability.Record
			So(json.Unmarshal([]byte(`{
				"Tuesday": {"repeatType":"weekly","slots":[{"startTime":"08:00","endTime":"12:00"}]},
				"2024-06-05": {"repeatType":"weekly","slots":[{"startTime":"13:00","endTime":"15:00"}]}
			}`), &rec), ShouldBeNil)

			// 2024-06-05 is a Wednesday.
			norm := availability.Normalize(rec)

			Convey("Then both weekdays are present and hours add up", func() {
				So(norm.Weekly, ShouldHaveLength, 2)
				So(norm.Weekly[time.Tuesday], ShouldHaveLength, 1)
				So(norm.Weekly[time.Wednesday], ShouldHaveLength, 1)
				So(norm.TotalWeeklyHours, ShouldEqual, 6)
			})
		})

		Convey("When slots are custom one-offs", func() {
			var rec availability.Record
			So(json.Unmarshal([]byte(`{
				"monday": [{"startTime":"09:00","endTime":"17:00"}]
			}`), &rec), ShouldBeNil)

			norm := availability.Normalize(rec)

			Convey("Then they appear in the weekly map but add zero hours", func() {
				So(norm.Weekly[time.Monday], ShouldHaveLength, 1)
				So(norm.TotalWeeklyHours, ShouldEqual, 0)
			})
		})

		Convey("When a biweekly entry is present", func() {
			var rec availability.Record
			So(json.Unmarshal([]byte(`{
				"thursday": {"repeatType":"biweekly","slots":[{"startTime":"09:00","endTime":"13:30"}]}
			}`), &rec), ShouldBeNil)

			norm := availability.Normalize(rec)

			Convey("Then its hours count toward the total, rounded", func() {
				So(norm.TotalWeeklyHours, ShouldEqual, 5) // 4.5 rounds up
			})
		})

		Convey("When slots are malformed or inverted", func() {
			var rec availability.Record
			So(json.Unmarshal([]byte(`{
				"friday": {"repeatType":"weekly","slots":[
					{"startTime":"bogus","endTime":"17:00"},
					{"startTime":"17:00","endTime":"09:00"},
					{"startTime":"10:00","endTime":"12:00"}
				]}
			}`), &rec), ShouldBeNil)

			norm := availability.Normalize(rec)

			Convey("Then bad slots are dropped and the rest survive", func() {
				So(norm.Weekly[time.Friday], ShouldResemble, []timeslot.Slot{{Start: "10:00", End: "12:00"}})
				So(norm.TotalWeeklyHours, ShouldEqual, 2)
			})
		})

		Convey("When a key is neither a weekday nor a date", func() {
			var rec availability.Record
			So(json.Unmarshal([]byte(`{
				"someday": [{"startTime":"09:00","endTime":"10:00"}],
				"sunday": [{"startTime":"09:00","endTime":"10:00"}]
			}`), &rec), ShouldBeNil)

			norm := availability.Normalize(rec)

			Convey("Then the unresolvable key is skipped", func() {
				So(norm.Weekly, ShouldHaveLength, 1)
				So(norm.Weekly[time.Sunday], ShouldHaveLength, 1)
			})
		})

		Convey("When the record is empty", func() {
			norm := availability.Normalize(nil)

			Convey("Then the result is empty, not an error", func() {
				So(norm.Weekly, ShouldBeEmpty)
				So(norm.TotalWeeklyHours, ShouldEqual, 0)
			})
		})
	})
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	Convey("Given a record normalized twice", t, func() {
		var rec availability.Record
		So(json.Unmarshal([]byte(`{
			"monday": {"repeatType":"weekly","slots":[{"startTime":"09:00","endTime":"17:00"}]},
			"2024-06-10": {"repeatType":"weekly","slots":[{"startTime":"18:00","endTime":"22:00"}]}
		}`), &rec), ShouldBeNil)

		first := availability.Normalize(rec)
		second := availability.Normalize(rec)

		Convey("Then both passes agree and the raw record is intact", func() {
			So(second, ShouldResemble, first)
			So(rec, ShouldHaveLength, 2)
			So(rec[0].Entry.Slots[0].Start, ShouldEqual, "09:00")
		})
	})
}
