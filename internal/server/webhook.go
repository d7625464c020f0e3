package server

import (
    "encoding/json"
    "net/http"
    "strconv"

    "go.uber.org/zap"

    "shippingbridge/internal/ecomplus"
    "shippingbridge/internal/mandabem"
)

const (
    echoSuccess  = "SUCCESS"
    echoSkip     = "SKIP"
    echoAPIError = "STORE_API_ERR"

    readyForShipping = "ready_for_shipping"
)

// handleWebhook receives order triggers from the platform and creates a
// shipping tag when an order just became ready for shipping. Everything that
// is not that exact transition answers SKIP without error; carrier failures
// are swallowed so the platform never retries a half-tagged order.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
    storeID, _ := strconv.Atoi(r.Header.Get("X-Store-ID"))

    var trig ecomplus.Trigger
    if err := json.NewDecoder(r.Body).Decode(&trig); err != nil {
        writeErrorJSON(w, http.StatusBadRequest, echoAPIError, "cannot parse trigger body")
        return
    }
    if trig.Resource != "orders" {
        writeText(w, http.StatusOK, echoSkip)
        return
    }
    var partial ecomplus.Order
    _ = json.Unmarshal(trig.Body, &partial)
    if partial.FulfillmentStatus == nil || partial.FulfillmentStatus.Current != readyForShipping {
        writeText(w, http.StatusOK, echoSkip)
        return
    }

    ctx := r.Context()
    app, err := s.platform.AppData(ctx, storeID)
    if err != nil {
        writeErrorJSON(w, http.StatusInternalServerError, echoAPIError, err.Error())
        return
    }
    if app.MandaBemID == "" || app.MandaBemKey == "" || app.DisableAutoTag {
        writeText(w, http.StatusOK, echoSkip)
        return
    }

    var dedupKey string
    if s.cache != nil {
        dedupKey = s.cache.Key("tag", strconv.Itoa(storeID)+":"+trig.ResourceID)
        if v, cerr := s.cache.Get(ctx, dedupKey); cerr == nil && v != "" {
            // tag already created for this order
            writeText(w, http.StatusOK, echoSkip)
            return
        }
    }

    order, err := s.platform.Order(ctx, storeID, trig.ResourceID)
    if err != nil {
        writeErrorJSON(w, http.StatusInternalServerError, echoAPIError, err.Error())
        return
    }
    s.log.Info("creating shipping tag",
        zap.Int("store_id", storeID), zap.String("order_id", order.ID))

    creds := mandabem.Credentials{ID: app.MandaBemID, Key: app.MandaBemKey}
    tags := s.carrier.CreateTag(ctx, creds, order, "")
    for _, tag := range tags {
        if rerr := s.tags.Record(ctx, storeID, order.ID, tag.Service, tag.Response); rerr != nil {
            s.log.Warn("record shipping tag", zap.Error(rerr))
        }
    }
    if s.cache != nil && len(tags) > 0 {
        if cerr := s.cache.Set(ctx, dedupKey, "1", s.tagDedupTTL); cerr != nil {
            s.log.Warn("mark tagged order", zap.Error(cerr))
        }
    }
    writeText(w, http.StatusOK, echoSuccess)
}

func writeText(w http.ResponseWriter, status int, body string) {
    w.Header().Set("Content-Type", "text/plain; charset=utf-8")
    w.WriteHeader(status)
    w.Write([]byte(body))
}
