package mandabem

import (
    "context"
    "encoding/json"
    "net/url"
    "strconv"

    "go.uber.org/zap"

    "shippingbridge/internal/calculate"
    "shippingbridge/internal/ecomplus"
)

// Correios services eligible for tag creation.
var tagServices = map[string]bool{
    "PAC":     true,
    "SEDEX":   true,
    "PACMINI": true,
}

// Tag is one successfully created shipping tag.
type Tag struct {
    Service  string
    RefID    string
    Response []byte
}

// CreateTag posts one gerar_envio request per shipping line carrying an
// eligible Correios service. Failures are logged and swallowed: a tag that
// could not be created must never fail the webhook caller. Returns the tags
// that were created.
func (c *Client) CreateTag(ctx context.Context, creds Credentials, order *ecomplus.Order, refID string) []Tag {
    if order == nil {
        return nil
    }
    if refID == "" {
        if order.Number != 0 {
            refID = strconv.Itoa(order.Number)
        } else {
            refID = order.ID
        }
    }

    base := url.Values{}
    base.Set("plataforma_id", creds.ID)
    base.Set("plataforma_chave", creds.Key)
    base.Set("ref_id", refID)

    if len(order.Items) > 0 {
        type produto struct {
            Nome       string  `json:"nome"`
            Quantidade int     `json:"quantidade"`
            Preco      float64 `json:"preco"`
        }
        produtos := make([]produto, 0, len(order.Items))
        for _, item := range order.Items {
            price := item.Price
            if item.FinalPrice != nil {
                price = *item.FinalPrice
            }
            produtos = append(produtos, produto{Nome: item.Name, Quantidade: item.Quantity, Preco: price})
        }
        if b, err := json.Marshal(produtos); err == nil {
            base.Set("produtos", string(b))
        }
    }
    if len(order.Buyers) > 0 {
        buyer := order.Buyers[0]
        if buyer.RegistryType == "p" && buyer.DocNumber != "" {
            base.Set("cpf_destinatario", calculate.Digits(buyer.DocNumber))
        }
    }

    var tags []Tag
    for _, line := range order.ShippingLines {
        if line.App == nil || !tagServices[line.App.ServiceName] || line.To == nil {
            continue
        }
        form := url.Values{}
        for k, v := range base {
            form[k] = v
        }
        form.Set("forma_envio", line.App.ServiceName)
        form.Set("destinatario", line.To.Name)
        form.Set("cep", calculate.Digits(line.To.Zip))
        form.Set("logradouro", line.To.Street)
        if line.To.Number != 0 {
            form.Set("numero", strconv.Itoa(line.To.Number))
        } else {
            form.Set("numero", "SN")
        }
        if line.To.Complement != "" {
            form.Set("complemento", line.To.Complement)
        }
        form.Set("cidade", line.To.City)
        form.Set("estado", line.To.ProvinceCode)
        if line.Package != nil && line.Package.Weight.Value != 0 {
            if kg, err := calculate.WeightKg(line.Package.Weight); err == nil {
                form.Set("peso", strconv.FormatFloat(kg, 'f', -1, 64))
                form.Set("altura", strconv.Itoa(packageHeightCm))
                form.Set("largura", strconv.Itoa(packageWidthCm))
                form.Set("comprimento", strconv.Itoa(packageLengthCm))
            }
        }
        if line.DeclaredValue != 0 {
            form.Set("valor_seguro", strconv.FormatFloat(line.DeclaredValue, 'f', 2, 64))
        }
        if line.From != nil {
            form.Set("cep_origem", calculate.Digits(line.From.Zip))
        }

        status, body, err := c.postForm(ctx, "/ws/gerar_envio", form)
        if err != nil {
            c.log.Error("mandabem create tag failed",
                zap.String("service", line.App.ServiceName), zap.Error(err))
            continue
        }
        if status < 200 || status >= 300 {
            c.log.Error("mandabem create tag rejected",
                zap.String("service", line.App.ServiceName), zap.Int("status", status),
                zap.ByteString("body", body))
            continue
        }
        c.log.Info("mandabem create tag",
            zap.String("service", line.App.ServiceName), zap.String("ref_id", refID),
            zap.ByteString("response", body))
        tags = append(tags, Tag{Service: line.App.ServiceName, RefID: refID, Response: body})
    }
    return tags
}
