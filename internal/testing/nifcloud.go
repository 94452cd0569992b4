package testing

import (
	"encoding/xml"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/imamik/nifcloud-lb/internal/platform/nifcloud"
)

// FakeNamespace is the default namespace of FakeNifcloud success envelopes.
const FakeNamespace = "https://cp.cloud.nifty.com/api/"

// FakeListener is a listener held by FakeNifcloud.
type FakeListener struct {
	Port          int
	InstancePort  int
	BalancingType int
	FilterType    int
	FilterIPs     []string
	Instances     []string

	hiddenFor int
}

// FakeLoadBalancer is a load balancer held by FakeNifcloud.
type FakeLoadBalancer struct {
	Name           string
	NetworkVolume  int
	IPVersion      string
	AccountingType string
	PolicyType     string
	Listeners      []*FakeListener

	hiddenFor int
}

// FakeFailure replaces the response of an action. When Body is set it is
// written verbatim, otherwise an error envelope with Code and Message.
type FakeFailure struct {
	Status  int
	Code    string
	Message string
	Body    string
}

// FakeCall is a request received by FakeNifcloud.
type FakeCall struct {
	Method string
	Action string
	Form   url.Values
}

// FakeNifcloud is an in-memory NIFCLOUD load balancer API.
type FakeNifcloud struct {
	server *httptest.Server
	secret string

	mu            sync.Mutex
	lbs           map[string]*FakeLoadBalancer
	convergeAfter int
	failures      map[string]FakeFailure
	calls         []FakeCall
}

// TestingT is the part of testing.TB FakeNifcloud needs. GinkgoT() satisfies it.
type TestingT interface {
	Helper()
	Cleanup(func())
}

// NewFakeNifcloud starts a fake API verifying signatures with secret.
func NewFakeNifcloud(t TestingT, secret string) *FakeNifcloud {
	t.Helper()
	f := &FakeNifcloud{
		secret:   secret,
		lbs:      make(map[string]*FakeLoadBalancer),
		failures: make(map[string]FakeFailure),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake.
func (f *FakeNifcloud) URL() string {
	return f.server.URL
}

// Close stops the server; later calls fail with transport errors.
func (f *FakeNifcloud) Close() {
	f.server.Close()
}

// Client returns a client pointed at the fake.
func (f *FakeNifcloud) Client(accessKey string, opts ...nifcloud.ClientOption) *nifcloud.Client {
	opts = append([]nifcloud.ClientOption{nifcloud.WithBaseURL(f.server.URL)}, opts...)
	return nifcloud.NewClient(accessKey, f.secret, TestEndpoint, opts...)
}

// AddLoadBalancer stores lb. Nil FilterIPs means no filter.
func (f *FakeNifcloud) AddLoadBalancer(lb FakeLoadBalancer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := lb
	stored.Listeners = nil
	for _, l := range lb.Listeners {
		stored.Listeners = append(stored.Listeners, cloneListener(l))
	}
	f.lbs[lb.Name] = &stored
}

// SetConvergeAfter makes resources created later invisible to the next n
// describes. A negative n keeps them invisible forever.
func (f *FakeNifcloud) SetConvergeAfter(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 0 {
		n = math.MaxInt
	}
	f.convergeAfter = n
}

// Fail makes every call of action return failure.
func (f *FakeNifcloud) Fail(action string, failure FakeFailure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[action] = failure
}

// Recover removes an injected failure.
func (f *FakeNifcloud) Recover(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, action)
}

// LoadBalancer returns a copy of the named load balancer, or nil.
func (f *FakeNifcloud) LoadBalancer(name string) *FakeLoadBalancer {
	f.mu.Lock()
	defer f.mu.Unlock()
	lb, ok := f.lbs[name]
	if !ok {
		return nil
	}
	out := *lb
	out.Listeners = nil
	for _, l := range lb.Listeners {
		out.Listeners = append(out.Listeners, cloneListener(l))
	}
	return &out
}

// Listener returns a copy of the listener, or nil.
func (f *FakeNifcloud) Listener(name string, port, instancePort int) *FakeListener {
	f.mu.Lock()
	defer f.mu.Unlock()
	lb, ok := f.lbs[name]
	if !ok {
		return nil
	}
	if l := lb.listener(port, instancePort); l != nil {
		return cloneListener(l)
	}
	return nil
}

// Calls returns all requests received so far.
func (f *FakeNifcloud) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Actions returns the action names received so far, in order.
func (f *FakeNifcloud) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Action
	}
	return out
}

// CallCount returns how often action was called.
func (f *FakeNifcloud) CallCount(action string) int {
	n := 0
	for _, a := range f.Actions() {
		if a == action {
			n++
		}
	}
	return n
}

// LastCall returns the last request for action.
func (f *FakeNifcloud) LastCall(action string) (FakeCall, bool) {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Action == action {
			return calls[i], true
		}
	}
	return FakeCall{}, false
}

func (f *FakeNifcloud) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeFakeError(w, http.StatusBadRequest, "Client.MalformedRequest", err.Error())
		return
	}

	action := r.Form.Get("Action")
	params := nifcloud.Params{}
	for k := range r.Form {
		if k != "Signature" {
			params[k] = r.Form.Get(k)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Method: r.Method, Action: action, Form: r.Form})

	if nifcloud.Sign(f.secret, r.Method, r.Host, r.URL.Path, params) != r.Form.Get("Signature") {
		writeFakeError(w, http.StatusForbidden, "Client.SignatureDoesNotMatch", "The request signature we calculated does not match the signature you provided.")
		return
	}

	if failure, ok := f.failures[action]; ok {
		if failure.Body != "" {
			w.WriteHeader(failure.Status)
			_, _ = w.Write([]byte(failure.Body))
			return
		}
		writeFakeError(w, failure.Status, failure.Code, failure.Message)
		return
	}

	switch action {
	case nifcloud.ActionDescribeLoadBalancers:
		f.describe(w, r.Form)
	case nifcloud.ActionCreateLoadBalancer:
		f.create(w, r.Form)
	case nifcloud.ActionRegisterPortWithLoadBalancer:
		f.registerPort(w, r.Form)
	case nifcloud.ActionSetFilterForLoadBalancer:
		f.setFilter(w, r.Form)
	case nifcloud.ActionRegisterInstancesWithLoadBalancer:
		f.changeInstances(w, r.Form, true)
	case nifcloud.ActionDeregisterInstancesFromLoadBalancer:
		f.changeInstances(w, r.Form, false)
	default:
		writeFakeError(w, http.StatusBadRequest, "Client.InvalidParameterNotFound.Action", "The action '"+action+"' does not exist.")
	}
}

func (f *FakeNifcloud) describe(w http.ResponseWriter, form url.Values) {
	name := form.Get("LoadBalancerNames.member.1")
	port := formInt(form, "LoadBalancerNames.LoadBalancerPort.1")
	instancePort := formInt(form, "LoadBalancerNames.InstancePort.1")

	lb, ok := f.lbs[name]
	if !ok || lb.hiddenFor > 0 {
		if ok {
			lb.hiddenFor--
		}
		writeFakeError(w, http.StatusBadRequest, nifcloud.ErrorCodeLoadBalancerNotFound,
			fmt.Sprintf("The LoadBalancerName '%s' does not exist.", name))
		return
	}

	l := lb.listener(port, instancePort)
	if l == nil || l.hiddenFor > 0 {
		if l != nil {
			l.hiddenFor--
		}
		writeFakeError(w, http.StatusBadRequest, nifcloud.ErrorCodePortNotFound,
			fmt.Sprintf("The LoadBalancerPort '%d' does not exist.", port))
		return
	}

	member := describeMember{
		LoadBalancerName: lb.Name,
		DNSName:          lb.Name + ".lb.example.nifcloud.com",
		NetworkVolume:    lb.NetworkVolume,
		PolicyType:       lb.PolicyType,
		Listener: describeListener{
			LoadBalancerPort: l.Port,
			InstancePort:     l.InstancePort,
			BalancingType:    l.BalancingType,
		},
		FilterType: l.FilterType,
	}
	for _, id := range l.Instances {
		member.Instances = append(member.Instances, describeInstance{InstanceID: id})
	}
	ips := l.FilterIPs
	if len(ips) == 0 {
		ips = []string{nifcloud.NoFilterSentinel}
	}
	for _, ip := range ips {
		member.FilterIPs = append(member.FilterIPs, describeIP{IPAddress: ip})
	}

	writeFakeXML(w, describeResponse{Xmlns: FakeNamespace, Members: []describeMember{member}})
}

func (f *FakeNifcloud) create(w http.ResponseWriter, form url.Values) {
	name := form.Get("LoadBalancerName")
	if _, ok := f.lbs[name]; ok {
		writeFakeError(w, http.StatusBadRequest, "Client.InvalidParameterDuplicate.LoadBalancerName",
			fmt.Sprintf("The LoadBalancerName '%s' is already in use.", name))
		return
	}

	f.lbs[name] = &FakeLoadBalancer{
		Name:           name,
		NetworkVolume:  formInt(form, "NetworkVolume"),
		IPVersion:      form.Get("IpVersion"),
		AccountingType: form.Get("AccountingType"),
		PolicyType:     form.Get("PolicyType"),
		Listeners:      []*FakeListener{listenerFromForm(form)},
		hiddenFor:      f.convergeAfter,
	}
	writeFakeXML(w, mutationResponse{XMLName: xml.Name{Local: "CreateLoadBalancerResponse"}, Xmlns: FakeNamespace, RequestID: "req-create"})
}

func (f *FakeNifcloud) registerPort(w http.ResponseWriter, form url.Values) {
	lb, ok := f.lbs[form.Get("LoadBalancerName")]
	if !ok {
		writeFakeError(w, http.StatusBadRequest, nifcloud.ErrorCodeLoadBalancerNotFound, "The LoadBalancerName does not exist.")
		return
	}
	l := listenerFromForm(form)
	if lb.listener(l.Port, l.InstancePort) != nil {
		writeFakeError(w, http.StatusBadRequest, "Client.InvalidParameterDuplicate.LoadBalancerPort", "The listener already exists.")
		return
	}
	l.hiddenFor = f.convergeAfter
	lb.Listeners = append(lb.Listeners, l)
	writeFakeXML(w, mutationResponse{XMLName: xml.Name{Local: "RegisterPortWithLoadBalancerResponse"}, Xmlns: FakeNamespace, RequestID: "req-port"})
}

func (f *FakeNifcloud) setFilter(w http.ResponseWriter, form url.Values) {
	l, ok := f.targetListener(w, form)
	if !ok {
		return
	}
	if ft := formInt(form, "FilterType"); ft != 0 {
		l.FilterType = ft
	}
	for n := 1; ; n++ {
		ip := form.Get(fmt.Sprintf("IPAddresses.member.%d.IPAddress", n))
		if ip == "" {
			break
		}
		add := form.Get(fmt.Sprintf("IPAddresses.member.%d.AddOnFilter", n)) == "true"
		l.FilterIPs = slices.DeleteFunc(l.FilterIPs, func(s string) bool { return s == ip })
		if add {
			l.FilterIPs = append(l.FilterIPs, ip)
		}
	}
	writeFakeXML(w, mutationResponse{XMLName: xml.Name{Local: "SetFilterForLoadBalancerResponse"}, Xmlns: FakeNamespace, RequestID: "req-filter"})
}

func (f *FakeNifcloud) changeInstances(w http.ResponseWriter, form url.Values, register bool) {
	l, ok := f.targetListener(w, form)
	if !ok {
		return
	}
	for n := 1; ; n++ {
		id := form.Get(fmt.Sprintf("Instances.member.%d.InstanceId", n))
		if id == "" {
			break
		}
		l.Instances = slices.DeleteFunc(l.Instances, func(s string) bool { return s == id })
		if register {
			l.Instances = append(l.Instances, id)
		}
	}
	name := "RegisterInstancesWithLoadBalancerResponse"
	if !register {
		name = "DeregisterInstancesFromLoadBalancerResponse"
	}
	writeFakeXML(w, mutationResponse{XMLName: xml.Name{Local: name}, Xmlns: FakeNamespace, RequestID: "req-instances"})
}

func (f *FakeNifcloud) targetListener(w http.ResponseWriter, form url.Values) (*FakeListener, bool) {
	lb, ok := f.lbs[form.Get("LoadBalancerName")]
	if !ok {
		writeFakeError(w, http.StatusBadRequest, nifcloud.ErrorCodeLoadBalancerNotFound, "The LoadBalancerName does not exist.")
		return nil, false
	}
	l := lb.listener(formInt(form, "LoadBalancerPort"), formInt(form, "InstancePort"))
	if l == nil {
		writeFakeError(w, http.StatusBadRequest, nifcloud.ErrorCodePortNotFound, "The LoadBalancerPort does not exist.")
		return nil, false
	}
	return l, true
}

func (lb *FakeLoadBalancer) listener(port, instancePort int) *FakeListener {
	for _, l := range lb.Listeners {
		if l.Port == port && l.InstancePort == instancePort {
			return l
		}
	}
	return nil
}

func listenerFromForm(form url.Values) *FakeListener {
	return &FakeListener{
		Port:          formInt(form, "Listeners.member.1.LoadBalancerPort"),
		InstancePort:  formInt(form, "Listeners.member.1.InstancePort"),
		BalancingType: formInt(form, "Listeners.member.1.BalancingType"),
		FilterType:    nifcloud.DefaultFilterType,
	}
}

func cloneListener(l *FakeListener) *FakeListener {
	out := *l
	out.FilterIPs = slices.Clone(l.FilterIPs)
	out.Instances = slices.Clone(l.Instances)
	if out.FilterType == 0 {
		out.FilterType = nifcloud.DefaultFilterType
	}
	return &out
}

func formInt(form url.Values, key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(form.Get(key)))
	return n
}

type describeResponse struct {
	XMLName xml.Name         `xml:"DescribeLoadBalancersResponse"`
	Xmlns   string           `xml:"xmlns,attr"`
	Members []describeMember `xml:"DescribeLoadBalancersResult>LoadBalancerDescriptions>member"`
}

type describeMember struct {
	LoadBalancerName string             `xml:"LoadBalancerName"`
	DNSName          string             `xml:"DNSName"`
	NetworkVolume    int                `xml:"NetworkVolume"`
	PolicyType       string             `xml:"PolicyType"`
	Listener         describeListener   `xml:"ListenerDescriptions>member>Listener"`
	Instances        []describeInstance `xml:"Instances>member"`
	FilterType       int                `xml:"Filter>FilterType"`
	FilterIPs        []describeIP       `xml:"Filter>IPAddresses>member"`
}

type describeListener struct {
	LoadBalancerPort int `xml:"LoadBalancerPort"`
	InstancePort     int `xml:"InstancePort"`
	BalancingType    int `xml:"BalancingType"`
}

type describeInstance struct {
	InstanceID string `xml:"InstanceId"`
}

type describeIP struct {
	IPAddress string `xml:"IPAddress"`
}

type mutationResponse struct {
	XMLName   xml.Name
	Xmlns     string `xml:"xmlns,attr"`
	RequestID string `xml:"ResponseMetadata>RequestId"`
}

type errorResponse struct {
	XMLName   xml.Name `xml:"Response"`
	Code      string   `xml:"Errors>Error>Code"`
	Message   string   `xml:"Errors>Error>Message"`
	RequestID string   `xml:"RequestID"`
}

func writeFakeXML(w http.ResponseWriter, v any) {
	body, err := xml.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}

func writeFakeError(w http.ResponseWriter, status int, code, message string) {
	body, _ := xml.Marshal(errorResponse{Code: code, Message: message, RequestID: "req-error"})
	w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}
