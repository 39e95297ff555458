// Package ldap implements the directory client against an LDAP server
// holding posixGroup entries.
package ldap

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	ldapv3 "github.com/go-ldap/ldap/v3"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/shared/config"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

// Client talks to the LDAP directory. Mutations are idempotent: adding a
// member the group already has, or removing one it does not, is absorbed as
// success so retried reconciliation runs converge instead of failing.
type Client struct {
	uri          string
	bindDN       string
	bindPassword string
	groupOU      string
	userOU       string
	timeout      time.Duration
	logger       logger.Interface
}

func NewClient(cfg *config.LDAPConfig, logger logger.Interface) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		uri:          cfg.URI,
		bindDN:       cfg.BindDN,
		bindPassword: cfg.BindPassword,
		groupOU:      cfg.GroupOU,
		userOU:       cfg.UserOU,
		timeout:      timeout,
		logger:       logger,
	}
}

// connect dials and binds a fresh connection. Connections are per-operation;
// the directory is only touched from slow paths where setup cost is noise.
func (c *Client) connect(ctx context.Context) (*ldapv3.Conn, error) {
	dialer := &net.Dialer{Timeout: c.timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	conn, err := ldapv3.DialURL(c.uri, ldapv3.DialWithDialer(dialer))
	if err != nil {
		return nil, errors.NewExternalServiceUnavailable("ldap", err)
	}
	conn.SetTimeout(c.timeout)

	if err := conn.Bind(c.bindDN, c.bindPassword); err != nil {
		conn.Close()
		return nil, errors.NewExternalServiceUnavailable("ldap", fmt.Errorf("bind failed: %w", err))
	}
	return conn, nil
}

func (c *Client) groupDN(name string) string {
	return fmt.Sprintf("cn=%s,%s", name, c.groupOU)
}

// CreateGroup adds a posixGroup entry named after the allocation's GID. An
// entry that already exists is absorbed as success.
func (c *Client) CreateGroup(ctx context.Context, name string) error {
	gid, err := gidFromGroupName(name)
	if err != nil {
		return err
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := ldapv3.NewAddRequest(c.groupDN(name), nil)
	req.Attribute("objectClass", []string{"top", "posixGroup"})
	req.Attribute("cn", []string{name})
	req.Attribute("gidNumber", []string{strconv.FormatUint(uint64(gid), 10)})

	if err := conn.Add(req); err != nil {
		if ldapv3.IsErrorWithCode(err, ldapv3.LDAPResultEntryAlreadyExists) {
			c.logger.Warnw("directory group already exists", "group", name)
			return nil
		}
		return errors.NewDirectoryOperationError("create group", name, "", err)
	}

	c.logger.Infow("directory group created", "group", name, "gid", gid)
	return nil
}

// DeleteGroup removes the posixGroup entry. A missing entry is absorbed as
// success so compensation after a half-failed provisioning run converges.
func (c *Client) DeleteGroup(ctx context.Context, name string) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := ldapv3.NewDelRequest(c.groupDN(name), nil)
	if err := conn.Del(req); err != nil {
		if ldapv3.IsErrorWithCode(err, ldapv3.LDAPResultNoSuchObject) {
			return nil
		}
		return errors.NewDirectoryOperationError("delete group", name, "", err)
	}

	c.logger.Infow("directory group deleted", "group", name)
	return nil
}

// AddMember appends a memberUid value to the group entry.
func (c *Client) AddMember(ctx context.Context, group, username string) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := ldapv3.NewModifyRequest(c.groupDN(group), nil)
	req.Add("memberUid", []string{username})

	if err := conn.Modify(req); err != nil {
		if ldapv3.IsErrorWithCode(err, ldapv3.LDAPResultAttributeOrValueExists) {
			c.logger.Warnw("user already in directory group", "group", group, "username", username)
			return nil
		}
		return errors.NewDirectoryOperationError("add member", group, username, err)
	}
	return nil
}

// RemoveMember drops a memberUid value from the group entry.
func (c *Client) RemoveMember(ctx context.Context, group, username string) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := ldapv3.NewModifyRequest(c.groupDN(group), nil)
	req.Delete("memberUid", []string{username})

	if err := conn.Modify(req); err != nil {
		if ldapv3.IsErrorWithCode(err, ldapv3.LDAPResultNoSuchAttribute) {
			c.logger.Warnw("user was not in directory group", "group", group, "username", username)
			return nil
		}
		return errors.NewDirectoryOperationError("remove member", group, username, err)
	}
	return nil
}

// ListMembers returns the memberUid values of the group entry.
func (c *Client) ListMembers(ctx context.Context, group string) ([]string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	req := ldapv3.NewSearchRequest(
		c.groupDN(group),
		ldapv3.ScopeBaseObject,
		ldapv3.NeverDerefAliases,
		0, 0, false,
		"(objectClass=posixGroup)",
		[]string{"memberUid"},
		nil,
	)

	result, err := conn.Search(req)
	if err != nil {
		return nil, errors.NewDirectoryOperationError("list members", group, "", err)
	}
	if len(result.Entries) == 0 {
		return nil, errors.NewDirectoryOperationError("list members", group, "", fmt.Errorf("group entry not found"))
	}

	return result.Entries[0].GetAttributeValues("memberUid"), nil
}

// LookupUID resolves a username to its posix uidNumber.
func (c *Client) LookupUID(ctx context.Context, username string) (uint, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	req := ldapv3.NewSearchRequest(
		c.userOU,
		ldapv3.ScopeWholeSubtree,
		ldapv3.NeverDerefAliases,
		1, 0, false,
		fmt.Sprintf("(&(objectClass=posixAccount)(uid=%s))", ldapv3.EscapeFilter(username)),
		[]string{"uidNumber"},
		nil,
	)

	result, err := conn.Search(req)
	if err != nil {
		return 0, errors.NewExternalServiceUnavailable("ldap", err)
	}
	if len(result.Entries) == 0 {
		return 0, errors.NewIdentityResolutionError(username, "no posix account in the directory")
	}

	uid, err := strconv.ParseUint(result.Entries[0].GetAttributeValue("uidNumber"), 10, 32)
	if err != nil {
		return 0, errors.NewIdentityResolutionError(username, "posix account has no usable uidNumber")
	}
	return uint(uid), nil
}

func gidFromGroupName(name string) (uint, error) {
	raw := strings.TrimPrefix(name, allocation.GroupNamePrefix)
	if raw == name {
		return 0, fmt.Errorf("group name %q does not carry a gid", name)
	}
	gid, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("group name %q does not carry a gid", name)
	}
	return uint(gid), nil
}
