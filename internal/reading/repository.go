package reading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/weatherdex/weather-station-api/internal/apperr"
	"github.com/weatherdex/weather-station-api/internal/storage"
)

// fiveMonthWindow approximates "5 months" as a fixed 150 days. Existing
// clients depend on this literal window, so it is not calendar-aware.
const fiveMonthWindow = 5 * 30 * 24 * time.Hour

// Repository provides data access for the readings collection.
type Repository struct {
	col storage.Collection
	log *zap.Logger
	now func() time.Time
}

// NewRepository creates a reading repository over the given collection.
func NewRepository(col storage.Collection, logger *zap.Logger) *Repository {
	return &Repository{
		col: col,
		log: logger,
		now: time.Now,
	}
}

// Create validates the reading against both triggers, strips any
// client-supplied identity, stamps the server time and inserts the document.
func (r *Repository) Create(ctx context.Context, rec Reading) (Reading, error) {
	if !temperatureTrigger(&rec.TemperatureC) {
		return Reading{}, apperr.Trigger(msgTemperatureBlocked)
	}
	if !humidityTrigger(rec.Humidity) {
		return Reading{}, apperr.Trigger(msgHumidityBlocked)
	}

	rec.ID = primitive.NilObjectID
	rec.Time = isoTime(r.now())

	id, err := r.col.InsertOne(ctx, rec)
	if err != nil {
		r.log.Error("insert reading failed", zap.Error(err))
		return Reading{}, fmt.Errorf("insert reading: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// CreateMany validates the entire batch before issuing a single bulk insert:
// the first trigger failure aborts the whole batch and nothing is written.
// All readings in the batch share one server-assigned timestamp.
func (r *Repository) CreateMany(ctx context.Context, recs []Reading) ([]Reading, error) {
	for i := range recs {
		if !temperatureTrigger(&recs[i].TemperatureC) {
			return nil, apperr.Trigger(msgTemperatureBlockedMany)
		}
		if !humidityTrigger(recs[i].Humidity) {
			return nil, apperr.Trigger(msgHumidityBlockedMany)
		}
	}

	now := isoTime(r.now())
	docs := make([]any, 0, len(recs))
	for i := range recs {
		recs[i].ID = primitive.NilObjectID
		recs[i].Time = now
		docs = append(docs, recs[i])
	}

	ids, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		r.log.Error("bulk insert readings failed", zap.Error(err))
		return nil, fmt.Errorf("insert readings: %w", err)
	}
	for i := range recs {
		if i < len(ids) {
			recs[i].ID = ids[i]
		}
	}
	return recs, nil
}

// GetAll returns up to 10 readings in persistence-default order.
func (r *Repository) GetAll(ctx context.Context) ([]Reading, error) {
	var results []Reading
	if err := r.col.Find(ctx, bson.M{}, storage.FindOptions{Limit: 10}, &results); err != nil {
		return nil, fmt.Errorf("find readings: %w", err)
	}
	if len(results) == 0 {
		return nil, apperr.NotFound("No readings available")
	}
	return results, nil
}

// GetByPage returns one page of readings sorted by ascending id.
func (r *Repository) GetByPage(ctx context.Context, page, size int) ([]Reading, error) {
	if page < 0 {
		return nil, apperr.Validation("Invalid page number")
	}
	offset := page * size

	var results []Reading
	opts := storage.FindOptions{
		Sort:  bson.D{{Key: "_id", Value: 1}},
		Skip:  int64(offset),
		Limit: int64(size),
	}
	if err := r.col.Find(ctx, bson.M{}, opts, &results); err != nil {
		return nil, fmt.Errorf("find readings page %d: %w", page, err)
	}
	if len(results) == 0 {
		return nil, apperr.NotFound("No readings available on this page")
	}
	return results, nil
}

// GetByID returns the reading with the given id.
func (r *Repository) GetByID(ctx context.Context, id string) (Reading, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Reading{}, apperr.Validation("Invalid reading ID")
	}

	var result Reading
	err = r.col.FindOne(ctx, bson.M{"_id": oid}, &result)
	if errors.Is(err, storage.ErrNoDocuments) {
		return Reading{}, apperr.NotFound("no matching result found")
	}
	if err != nil {
		return Reading{}, fmt.Errorf("find reading %s: %w", id, err)
	}
	return result, nil
}

// GetMaxPrecipitationLastFiveMonths returns the highest-precipitation reading
// recorded by the device within the trailing 150-day window.
func (r *Repository) GetMaxPrecipitationLastFiveMonths(ctx context.Context, deviceName string) (MaxPrecipitation, error) {
	filter := bson.M{
		fieldDeviceName: deviceName,
		fieldTime:       bson.M{"$gte": isoTime(r.now().Add(-fiveMonthWindow))},
	}
	opts := storage.FindOptions{
		Projection: bson.D{
			{Key: "_id", Value: 0},
			{Key: fieldDeviceName, Value: 1},
			{Key: fieldPrecipitation, Value: 1},
			{Key: fieldTime, Value: 1},
		},
		Sort:  bson.D{{Key: fieldPrecipitation, Value: -1}},
		Limit: 1,
	}

	var results []MaxPrecipitation
	if err := r.col.Find(ctx, filter, opts, &results); err != nil {
		return MaxPrecipitation{}, fmt.Errorf("find max precipitation for %q: %w", deviceName, err)
	}
	if len(results) == 0 {
		return MaxPrecipitation{}, apperr.NotFound("No sensor readings found")
	}
	return results[0], nil
}

// GetByDeviceNameAndDate returns every reading the device produced on the
// given calendar day (UTC), date formatted as YYYY-MM-DD.
func (r *Repository) GetByDeviceNameAndDate(ctx context.Context, deviceName, date string) ([]Reading, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperr.Validation("Invalid date, expected YYYY-MM-DD")
	}
	start := day.UTC()
	end := start.Add(24 * time.Hour)

	filter := bson.M{
		fieldDeviceName: deviceName,
		fieldTime:       bson.M{"$gte": isoTime(start), "$lt": isoTime(end)},
	}

	var results []Reading
	if err := r.col.Find(ctx, filter, storage.FindOptions{}, &results); err != nil {
		return nil, fmt.Errorf("find readings for %q on %s: %w", deviceName, date, err)
	}
	if len(results) == 0 {
		return nil, apperr.NotFound("No matching result found")
	}
	return results, nil
}

// GetMaxTempPerDeviceByDateRange groups readings with timestamps in
// [startDate, endDate] by device and reports each group's hottest reading.
// The pipeline sorts by temperature descending and takes the first document
// per group; on equal temperatures the store's ordering decides, which is
// the tie-break callers expect.
func (r *Repository) GetMaxTempPerDeviceByDateRange(ctx context.Context, startDate, endDate string) ([]DeviceMaxTemperature, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			fieldTime: bson.M{"$gte": startDate, "$lte": endDate},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: fieldTemperature, Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$" + fieldDeviceName,
			"Time":        bson.M{"$first": "$" + fieldTime},
			"Temperature": bson.M{"$first": "$" + fieldTemperature},
		}}},
	}

	var results []DeviceMaxTemperature
	if err := r.col.Aggregate(ctx, pipeline, &results); err != nil {
		return nil, fmt.Errorf("aggregate max temperatures: %w", err)
	}
	if len(results) == 0 {
		return nil, apperr.NotFound("No matching results found")
	}
	return results, nil
}

// Update applies the non-nil fields of the patch to the stored document.
// Both triggers are re-validated against the supplied fields before the
// write is issued.
func (r *Repository) Update(ctx context.Context, p Patch) error {
	if !temperatureTrigger(p.TemperatureC) {
		return apperr.Trigger(msgTemperatureBlockedMany)
	}
	if !humidityTrigger(p.Humidity) {
		return apperr.Trigger(msgHumidityBlockedMany)
	}

	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return apperr.Validation("Invalid reading ID")
	}

	set := bson.M{}
	setString(set, fieldDeviceName, p.DeviceName)
	setFloat(set, fieldPrecipitation, p.Precipitation)
	setFloat(set, fieldLatitude, p.Latitude)
	setFloat(set, fieldLongitude, p.Longitude)
	setFloat(set, fieldTemperature, p.TemperatureC)
	setFloat(set, fieldAtmosphericPressure, p.AtmosphericPressure)
	setFloat(set, fieldMaxWindSpeed, p.MaxWindSpeed)
	setFloat(set, fieldSolarRadiation, p.SolarRadiation)
	setFloat(set, fieldVaporPressure, p.VaporPressure)
	setFloat(set, fieldHumidity, p.Humidity)
	setFloat(set, fieldWindDirection, p.WindDirection)
	setString(set, fieldTime, p.Time)

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		r.log.Error("update reading failed", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("update reading %s: %w", p.ID, err)
	}
	if res.Matched == 0 {
		return apperr.NotFound("No reading found")
	}
	return nil
}

// RepairFieldNames renames the two malformed field names a historical ingest
// bug produced (a stray trailing slash inside the unit) back to their correct
// forms, across every document carrying either. Safe to run repeatedly: once
// repaired, nothing matches and zero documents are modified.
func (r *Repository) RepairFieldNames(ctx context.Context) (int64, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{fieldSolarRadiationBroken: bson.M{"$exists": true}},
			bson.M{fieldMaxWindSpeedBroken: bson.M{"$exists": true}},
		},
	}
	update := bson.M{
		"$rename": bson.M{
			fieldSolarRadiationBroken: fieldSolarRadiation,
			fieldMaxWindSpeedBroken:   fieldMaxWindSpeed,
		},
	}

	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		r.log.Error("repair field names failed", zap.Error(err))
		return 0, fmt.Errorf("repair reading fields: %w", err)
	}
	if res.Modified == 0 {
		return 0, apperr.NotFound("No readings found")
	}
	r.log.Info("repaired malformed reading fields", zap.Int64("modified", res.Modified))
	return res.Modified, nil
}

// DeleteByID deletes one reading, reporting the deleted count.
func (r *Repository) DeleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, apperr.Validation("Invalid reading ID")
	}
	count, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete reading %s: %w", id, err)
	}
	return count, nil
}

// DeleteMany deletes every reading whose id appears in ids. Ids that match
// nothing simply do not count; the caller decides whether a low count matters.
func (r *Repository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, apperr.Validation("Invalid reading ID")
		}
		oids = append(oids, oid)
	}
	count, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("delete readings: %w", err)
	}
	return count, nil
}

func setString(set bson.M, field string, v *string) {
	if v != nil {
		set[field] = *v
	}
}

func setFloat(set bson.M, field string, v *float64) {
	if v != nil {
		set[field] = *v
	}
}
