package service

import (
	"github.com/art-design-pro/admin-backend/internal/model"
)

// MenuBadge 菜单徽标
type MenuBadge struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Style   string `json:"style"`
}

// MenuNode 菜单树节点，children 为空时不输出该字段
type MenuNode struct {
	ID        uint           `json:"id"`
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	Path      string         `json:"path,omitempty"`
	Component string         `json:"component,omitempty"`
	Redirect  string         `json:"redirect,omitempty"`
	Status    int8           `json:"status"`
	Sort      int            `json:"sort"`
	ParentID  uint           `json:"parentId"`
	Meta      map[string]any `json:"meta"`
	Children  []*MenuNode    `json:"children,omitempty"`
}

// buildMenuMeta 组装节点的 meta，先铺扩展字段再覆盖具名字段，具名字段优先
func buildMenuMeta(menu *model.Menu) map[string]any {
	meta := make(map[string]any, len(menu.Meta)+16)
	for k, v := range menu.Meta {
		meta[k] = v
	}

	meta["title"] = menu.Title
	meta["icon"] = menu.Icon
	meta["activeIcon"] = menu.ActiveIcon
	meta["hidden"] = menu.Hidden
	meta["hideChildren"] = menu.HideChildren
	meta["hideBreadcrumb"] = menu.HideBreadcrumb
	meta["hideTab"] = menu.HideTab
	meta["keepAlive"] = menu.KeepAlive
	meta["fixedTab"] = menu.FixedTab
	meta["alwaysShow"] = menu.AlwaysShow
	meta["activePath"] = menu.ActivePath
	meta["isExternal"] = menu.IsExternal
	meta["externalUrl"] = menu.ExternalURL

	if menu.BadgeType != "" {
		meta["badge"] = &MenuBadge{
			Type:    menu.BadgeType,
			Content: menu.BadgeContent,
			Style:   menu.BadgeStyle,
		}
	} else {
		meta["badge"] = nil
	}

	if code := menu.Code(); code != "" {
		meta["permissionCode"] = code
	} else {
		meta["permissionCode"] = nil
	}

	return meta
}

func newMenuNode(menu *model.Menu) *MenuNode {
	return &MenuNode{
		ID:        menu.ID,
		Type:      menu.Type,
		Name:      menu.Name,
		Path:      menu.Path,
		Component: menu.Component,
		Redirect:  menu.Redirect,
		Status:    menu.Status,
		Sort:      menu.Sort,
		ParentID:  menu.ParentID,
		Meta:      buildMenuMeta(menu),
	}
}

// BuildMenuTree 从按 (sort, id) 排好序的扁平菜单递归构建树
// 父节点缺席的子树整体不可达，不会被挂到别处
func BuildMenuTree(menus []*model.Menu, parentID uint) []*MenuNode {
	var nodes []*MenuNode
	for _, menu := range menus {
		if menu.ParentID != parentID {
			continue
		}
		node := newMenuNode(menu)
		node.Children = BuildMenuTree(menus, menu.ID)
		nodes = append(nodes, node)
	}
	return nodes
}

// RemoveEmptyDirectories 后序剪除没有子节点的目录节点
// 只剪目录类型，空的菜单/按钮等叶子类型原样保留
func RemoveEmptyDirectories(nodes []*MenuNode) []*MenuNode {
	var kept []*MenuNode
	for _, node := range nodes {
		node.Children = RemoveEmptyDirectories(node.Children)
		if node.Type == model.MenuTypeDirectory && len(node.Children) == 0 {
			continue
		}
		kept = append(kept, node)
	}
	return kept
}

// CountTreeNodes 统计树中节点总数
func CountTreeNodes(nodes []*MenuNode) int {
	total := 0
	for _, node := range nodes {
		total += 1 + CountTreeNodes(node.Children)
	}
	return total
}
