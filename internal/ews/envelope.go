package ews

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
)

// ServerVersion is the RequestServerVersion sent with every request.
const ServerVersion = "Exchange2013"

const envelopeHeader = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"
               xmlns:t="http://schemas.microsoft.com/exchange/services/2006/types"
               xmlns:m="http://schemas.microsoft.com/exchange/services/2006/messages">
  <soap:Header>
    <t:RequestServerVersion Version="{{.Version | xml}}"/>
  </soap:Header>
  <soap:Body>
`

const envelopeFooter = `  </soap:Body>
</soap:Envelope>`

var templates = template.Must(template.New("ews").Funcs(template.FuncMap{
	"xml": escapeXML,
}).Parse(`
{{define "updateFlag"}}` + envelopeHeader + `    <m:UpdateItem MessageDisposition="SaveOnly" ConflictResolution="AlwaysOverwrite">
      <m:ItemChanges>
        <t:ItemChange>
          <t:ItemId Id="{{.ItemID | xml}}"/>
          <t:Updates>
            <t:SetItemField>
              <t:FieldURI FieldURI="item:Flag"/>
              <t:Message>
                <t:Flag>
                  <t:FlagStatus>Flagged</t:FlagStatus>
                  <t:StartDate>{{.StartDate | xml}}</t:StartDate>
                  <t:DueDate>{{.DueDate | xml}}</t:DueDate>
                </t:Flag>
              </t:Message>
            </t:SetItemField>
          </t:Updates>
        </t:ItemChange>
      </m:ItemChanges>
    </m:UpdateItem>
` + envelopeFooter + `{{end}}
{{define "createDraft"}}` + envelopeHeader + `    <m:CreateItem MessageDisposition="SaveOnly">
      <m:SavedItemFolderId>
        <t:DistinguishedFolderId Id="drafts"/>
      </m:SavedItemFolderId>
      <m:Items>
        <t:Message>
          <t:MimeContent CharacterSet="UTF-8">{{.MIME}}</t:MimeContent>
        </t:Message>
      </m:Items>
    </m:CreateItem>
` + envelopeFooter + `{{end}}
{{define "sendItem"}}` + envelopeHeader + `    <m:SendItem SaveItemToFolder="true">
      <m:ItemIds>
        <t:ItemId Id="{{.ItemID | xml}}"/>
      </m:ItemIds>
      <m:SavedItemFolderId>
        <t:DistinguishedFolderId Id="sentitems"/>
      </m:SavedItemFolderId>
    </m:SendItem>
` + envelopeFooter + `{{end}}
`))

// requestData is the union of fields referenced by the templates.
type requestData struct {
	Version   string
	ItemID    string
	StartDate string
	DueDate   string
	MIME      string
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// render executes the named envelope template.
func render(name string, data requestData) (string, error) {
	data.Version = ServerVersion
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s envelope: %w", name, err)
	}
	return buf.String(), nil
}

// responseEnvelope matches any EWS response by local element names.
type responseEnvelope struct {
	Body struct {
		Fault    *soapFault `xml:"Fault"`
		Response struct {
			ResponseMessages struct {
				Messages []ResponseMessage `xml:",any"`
			} `xml:"ResponseMessages"`
		} `xml:",any"`
	} `xml:"Body"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// ResponseMessage is a single <m:XxxResponseMessage> element.
type ResponseMessage struct {
	ResponseClass string `xml:"ResponseClass,attr"`
	MessageText   string `xml:"MessageText"`
	ResponseCode  string `xml:"ResponseCode"`
	Items         struct {
		Items []struct {
			ItemID ItemID `xml:"ItemId"`
		} `xml:",any"`
	} `xml:"Items"`
}

// ItemID is an EWS item identifier with its change key.
type ItemID struct {
	ID        string `xml:"Id,attr"`
	ChangeKey string `xml:"ChangeKey,attr"`
}

// FirstItemID returns the id of the first item in the response, if any.
func (m ResponseMessage) FirstItemID() (ItemID, bool) {
	for _, it := range m.Items.Items {
		if it.ItemID.ID != "" {
			return it.ItemID, true
		}
	}
	return ItemID{}, false
}

// parseResponse decodes a SOAP response body and returns its first
// response message, or an error for faults and ResponseClass="Error".
func parseResponse(op string, body []byte) (*ResponseMessage, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", op, err)
	}

	if f := env.Body.Fault; f != nil {
		return nil, &FaultError{Operation: op, Code: f.Code, Message: f.String}
	}

	msgs := env.Body.Response.ResponseMessages.Messages
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%s response has no response messages", op)
	}

	msg := msgs[0]
	if msg.ResponseClass == "Error" {
		return nil, &ResponseError{
			Operation: op,
			Code:      msg.ResponseCode,
			Message:   msg.MessageText,
		}
	}

	return &msg, nil
}
